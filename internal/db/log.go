// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/qiaoxue/bridgelab/internal/logging"

// dbLogf is an indirection over the package logger so tests can silence
// or capture adapter chatter.
var dbLogf = logging.Debugf
