// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// package config resolves the process configuration from environment
// variables. Resolution is a pure read: nothing here opens a database
// connection or touches the network.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Engine kinds selectable via DB_TYPE.
const (
	EngineSQLite = "sqlite"
	EngineMySQL  = "mysql"
)

type (
	// Config is the fully resolved process configuration.
	Config struct {
		Server   Server
		Database Database
		Chat     Chat
		Language string
		LogLevel string
	}

	// Server holds the HTTP listener settings.
	Server struct {
		Address string
	}

	// Database selects and parameterizes the storage engine.
	Database struct {
		Type   string
		SQLite SQLite
		MySQL  MySQL
	}

	// SQLite configures the embedded file-backed engine.
	SQLite struct {
		Path string
	}

	// MySQL configures the networked engine and its connection pool.
	// QueueLimit bounds how many acquisitions may wait for a free
	// connection; zero means unbounded waiting, never fail-fast.
	MySQL struct {
		Host            string
		Port            int
		User            string
		Password        string
		Database        string
		ConnectionLimit int
		QueueLimit      int
	}

	// Chat holds the external assistant API credentials. Either field
	// being empty disables the remote call and forces the canned
	// fallback.
	Chat struct {
		APIKey  string
		BotID   string
		BaseURL string
	}
)

// Addr returns the host:port of the MySQL server.
func (m MySQL) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// DSN renders the go-sql-driver data source name. parseTime is required
// so DATETIME columns scan into time.Time.
func (m MySQL) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		m.User, m.Password, m.Addr(), m.Database)
}

// Resolve reads the environment and returns the effective configuration.
// Unset variables fall back to the documented defaults; DB_TYPE values
// other than "mysql" select the embedded engine.
func Resolve() Config {
	v := viper.New()

	v.SetDefault("SERVER_ADDRESS", ":3000")
	v.SetDefault("DB_TYPE", EngineSQLite)
	v.SetDefault("DB_PATH", "./data/students.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "students_db")
	v.SetDefault("DB_CONNECTION_LIMIT", 10)
	v.SetDefault("DB_QUEUE_LIMIT", 0)
	v.SetDefault("COZE_API_KEY", "")
	v.SetDefault("COZE_BOT_ID", "")
	v.SetDefault("COZE_BASE_URL", "https://api.coze.cn")
	v.SetDefault("LANGUAGE", "zh")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	dbType := v.GetString("DB_TYPE")
	if dbType != EngineMySQL {
		dbType = EngineSQLite
	}

	return Config{
		Server: Server{
			Address: v.GetString("SERVER_ADDRESS"),
		},
		Database: Database{
			Type: dbType,
			SQLite: SQLite{
				Path: v.GetString("DB_PATH"),
			},
			MySQL: MySQL{
				Host:            v.GetString("DB_HOST"),
				Port:            v.GetInt("DB_PORT"),
				User:            v.GetString("DB_USER"),
				Password:        v.GetString("DB_PASSWORD"),
				Database:        v.GetString("DB_NAME"),
				ConnectionLimit: v.GetInt("DB_CONNECTION_LIMIT"),
				QueueLimit:      v.GetInt("DB_QUEUE_LIMIT"),
			},
		},
		Chat: Chat{
			APIKey:  v.GetString("COZE_API_KEY"),
			BotID:   v.GetString("COZE_BOT_ID"),
			BaseURL: v.GetString("COZE_BASE_URL"),
		},
		Language: v.GetString("LANGUAGE"),
		LogLevel: v.GetString("LOG_LEVEL"),
	}
}
