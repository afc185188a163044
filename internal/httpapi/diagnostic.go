// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qiaoxue/bridgelab/internal/db"
	"github.com/qiaoxue/bridgelab/internal/student"
)

// handleDiagnostic reports the effective runtime state: which engine is
// configured and active, whether storage answers, whether the schema is
// in place, and whether the chat bot has credentials. It always returns
// 200; an unhealthy system is described, not errored.
func (s *Server) handleDiagnostic(c echo.Context) error {
	ctx := c.Request().Context()

	diag := map[string]interface{}{
		"engineConfigured": s.cfg.Database.Type,
		"engineActive":     s.adapter.Kind(),
		"reachable":        false,
		"tableExists":      false,
		"chatConfigured":   s.chat.Configured(),
		"fixedLeaders":     student.FixedLeaderCount(),
	}

	var one int
	if _, err := s.adapter.QueryOne(ctx, &one, "SELECT 1"); err != nil {
		diag["error"] = err.Error()
		return c.JSON(http.StatusOK, diag)
	}
	diag["reachable"] = true

	exists, err := db.TableExists(ctx, s.adapter)
	if err != nil {
		diag["error"] = err.Error()
		return c.JSON(http.StatusOK, diag)
	}
	diag["tableExists"] = exists

	if exists {
		if stats, err := s.repo.Stats(ctx); err == nil {
			diag["stats"] = stats
		}
	}
	return c.JSON(http.StatusOK, diag)
}
