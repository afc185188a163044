// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/qiaoxue/bridgelab/internal/bridge"
	"github.com/qiaoxue/bridgelab/internal/db"
	"github.com/qiaoxue/bridgelab/internal/i18n"
	"github.com/qiaoxue/bridgelab/internal/logging"
	"github.com/qiaoxue/bridgelab/internal/model"
	"github.com/qiaoxue/bridgelab/internal/student"
)

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// domainError maps repository and auth errors onto status codes. Storage
// faults become 503, invariant violations 400, everything else a logged
// 500 with a generic body.
func domainError(c echo.Context, err error) error {
	switch {
	case db.IsUnavailable(err):
		return errorJSON(c, http.StatusServiceUnavailable, i18n.T("err.storage_unavailable"))
	case student.IsInvariantViolation(err):
		return errorJSON(c, http.StatusBadRequest, student.Reason(err))
	case errors.Is(err, student.ErrLoginFailed):
		return errorJSON(c, http.StatusUnauthorized, i18n.T("err.login_failed"))
	default:
		logging.Errorf("http: %s %s: %v", c.Request().Method, c.Path(), err)
		return errorJSON(c, http.StatusInternalServerError, i18n.T("err.internal"))
	}
}

// createError distinguishes enum failures from missing fields when the
// validator rejects a student payload.
func createError(c echo.Context, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() != "oneof" {
				continue
			}
			switch fe.Field() {
			case "Gender":
				return errorJSON(c, http.StatusBadRequest, i18n.T("err.invalid_gender"))
			case "Role":
				return errorJSON(c, http.StatusBadRequest, i18n.T("err.invalid_role"))
			}
		}
	}
	return errorJSON(c, http.StatusBadRequest, i18n.T("err.missing_student_fields"))
}

type loginRequest struct {
	Name      string `json:"name" validate:"required"`
	GroupName string `json:"groupName" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.missing_login_fields"))
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.missing_login_fields"))
	}

	leader, err := s.auth.VerifyLeaderLogin(c.Request().Context(), req.Name, req.GroupName, req.Password)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"student": leader,
	})
}

func (s *Server) handleListStudents(c echo.Context) error {
	list, err := s.repo.GetAll(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleAddStudent(c echo.Context) error {
	var req model.CreateStudent
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.missing_student_fields"))
	}
	if err := c.Validate(&req); err != nil {
		return createError(c, err)
	}

	added, err := s.repo.Add(c.Request().Context(), req)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, added)
}

func (s *Server) handleBatchAdd(c echo.Context) error {
	var list []model.CreateStudent
	if err := c.Bind(&list); err != nil || len(list) == 0 {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.batch_payload"))
	}
	for i := range list {
		if err := c.Validate(&list[i]); err != nil {
			return createError(c, err)
		}
	}

	result, err := s.repo.BatchAdd(c.Request().Context(), list)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGroupMembers(c echo.Context) error {
	members, err := s.repo.GetGroupMembers(c.Request().Context(), c.Param("group"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

func (s *Server) handleUpdateStudent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.student_not_found"))
	}
	var req model.UpdateStudent
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.missing_student_fields"))
	}

	updated, err := s.repo.Update(c.Request().Context(), id, req)
	if err != nil {
		return domainError(c, err)
	}
	if updated == nil {
		return errorJSON(c, http.StatusNotFound, i18n.T("err.student_not_found"))
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteStudent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.student_not_found"))
	}

	ok, err := s.repo.Delete(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	if !ok {
		return errorJSON(c, http.StatusNotFound, i18n.T("err.student_not_found"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

type batchDeleteRequest struct {
	StudentIDs []string `json:"studentIds" validate:"required,min=1"`
}

func (s *Server) handleBatchDelete(c echo.Context) error {
	var req batchDeleteRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.batch_payload"))
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.batch_payload"))
	}

	deleted, err := s.repo.BatchDelete(c.Request().Context(), req.StudentIDs)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.repo.Stats(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.missing_message"))
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.missing_message"))
	}

	reply, live := s.chat.Reply(c.Request().Context(), req.Message)
	source := "fallback"
	if live {
		source = "assistant"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"reply":  reply,
		"source": source,
	})
}

func (s *Server) handleBridgeScore(c echo.Context) error {
	var req bridge.Design
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.invalid_design"))
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, i18n.T("err.invalid_design"))
	}
	return c.JSON(http.StatusOK, bridge.Score(req))
}
