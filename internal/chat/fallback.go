// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package chat

import (
	"strings"

	"github.com/qiaoxue/bridgelab/internal/i18n"
)

// canned maps keyword sets to the localized knowledge-base answers.
// Keywords cover both English and Chinese phrasings; first match wins,
// top to bottom.
var canned = []struct {
	keywords  []string
	messageID string
}{
	// "hi" is deliberately absent: as a substring it matches "which",
	// "this" and friends.
	{[]string{"hello", "你好", "您好"}, "chat.greeting"},
	{[]string{"thank", "谢谢"}, "chat.thanks"},
	{[]string{"type", "类型", "种类"}, "chat.bridge_types"},
	{[]string{"load", "荷载", "承重"}, "chat.load_calc"},
	{[]string{"material", "材料"}, "chat.materials"},
	{[]string{"construct", "建造", "施工"}, "chat.construction"},
	{[]string{"span", "跨度", "经济"}, "chat.span_economy"},
}

// fallbackReply picks a canned answer by keyword, or the generic one.
func fallbackReply(message string) string {
	lowered := strings.ToLower(message)
	for _, entry := range canned {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return i18n.T(entry.messageID)
			}
		}
	}
	return i18n.T("chat.default")
}
