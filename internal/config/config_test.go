// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"strings"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	cfg := Resolve()

	if cfg.Server.Address != ":3000" {
		t.Errorf("Address = %q, want :3000", cfg.Server.Address)
	}
	if cfg.Database.Type != EngineSQLite {
		t.Errorf("Type = %q, want sqlite", cfg.Database.Type)
	}
	if cfg.Database.SQLite.Path != "./data/students.db" {
		t.Errorf("Path = %q", cfg.Database.SQLite.Path)
	}
	if cfg.Database.MySQL.Port != 3306 || cfg.Database.MySQL.ConnectionLimit != 10 {
		t.Errorf("MySQL defaults = %+v", cfg.Database.MySQL)
	}
	if cfg.Language != "zh" || cfg.LogLevel != "info" {
		t.Errorf("Language=%q LogLevel=%q", cfg.Language, cfg.LogLevel)
	}
	if cfg.Chat.BaseURL != "https://api.coze.cn" {
		t.Errorf("Chat.BaseURL = %q", cfg.Chat.BaseURL)
	}
}

func TestResolveEnvOverrides(t *testing.T) {
	t.Setenv("DB_TYPE", "mysql")
	t.Setenv("DB_HOST", "db.example.test")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SERVER_ADDRESS", ":8080")
	t.Setenv("LANGUAGE", "en")

	cfg := Resolve()
	if cfg.Database.Type != EngineMySQL {
		t.Errorf("Type = %q, want mysql", cfg.Database.Type)
	}
	if cfg.Database.MySQL.Host != "db.example.test" {
		t.Errorf("Host = %q", cfg.Database.MySQL.Host)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("Address = %q", cfg.Server.Address)
	}
	if cfg.Language != "en" {
		t.Errorf("Language = %q", cfg.Language)
	}
}

func TestUnknownEngineFallsBackToSQLite(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")

	cfg := Resolve()
	if cfg.Database.Type != EngineSQLite {
		t.Errorf("Type = %q, want sqlite for an unknown engine", cfg.Database.Type)
	}
}

func TestMySQLDSN(t *testing.T) {
	m := MySQL{Host: "localhost", Port: 3306, User: "root", Password: "pw", Database: "students_db"}

	dsn := m.DSN()
	if !strings.HasPrefix(dsn, "root:pw@tcp(localhost:3306)/students_db?") {
		t.Errorf("DSN = %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN missing parseTime: %q", dsn)
	}
}
