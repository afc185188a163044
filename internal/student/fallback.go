// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package student

import "github.com/qiaoxue/bridgelab/internal/model"

// fixedLeaders is the compiled-in leader roster. It is consulted before
// the database so these accounts can log in even when storage is down or
// empty. Negative ids keep them apart from persisted rows.
var fixedLeaders = []model.Student{
	{ID: -1, Name: "邓紫烨", Grade: "高二", StudentID: "0307", Gender: model.GenderFemale, Role: model.RoleLeader, GroupName: "337", GroupPassword: "337"},
	{ID: -2, Name: "陈熙", Grade: "高二", StudentID: "0104", Gender: model.GenderMale, Role: model.RoleLeader, GroupName: "爱日晖", GroupPassword: "爱日晖"},
	{ID: -3, Name: "李子流", Grade: "高二", StudentID: "1020", Gender: model.GenderMale, Role: model.RoleLeader, GroupName: "欢乐斗地主", GroupPassword: "欢乐斗地主"},
	{ID: -4, Name: "车嘉禾", Grade: "高二", StudentID: "0101", Gender: model.GenderMale, Role: model.RoleLeader, GroupName: "爱日军", GroupPassword: "爱日军"},
	{ID: -5, Name: "何皆莹", Grade: "高二", StudentID: "0911", Gender: model.GenderFemale, Role: model.RoleLeader, GroupName: "光宗耀祖", GroupPassword: "光宗耀祖"},
	{ID: -6, Name: "盛涵", Grade: "高二", StudentID: "0439", Gender: model.GenderMale, Role: model.RoleLeader, GroupName: "吴彦组", GroupPassword: "吴彦组"},
	{ID: -7, Name: "李浩嘉", Grade: "高二", StudentID: "0816", Gender: model.GenderMale, Role: model.RoleLeader, GroupName: "BS", GroupPassword: "BS"},
	{ID: -8, Name: "鲍灏", Grade: "高二", StudentID: "0401", Gender: model.GenderMale, Role: model.RoleLeader, GroupName: "冰红茶组", GroupPassword: "冰红茶组"},
	{ID: -9, Name: "谢安翘", Grade: "高二", StudentID: "0235", Gender: model.GenderFemale, Role: model.RoleLeader, GroupName: "人民当家作组", GroupPassword: "人民当家作组"},
	{ID: -10, Name: "孔雅雯", Grade: "高二", StudentID: "1018", Gender: model.GenderFemale, Role: model.RoleLeader, GroupName: "烤鱼", GroupPassword: "烤鱼"},
}

// lookupFixedLeader matches name, group and password against the
// compiled-in roster. Returns a copy so callers can strip the password.
func lookupFixedLeader(name, groupName, password string) *model.Student {
	for _, s := range fixedLeaders {
		if s.Name == name && s.GroupName == groupName && s.GroupPassword == password {
			match := s
			return &match
		}
	}
	return nil
}

// FixedLeaderCount is exposed for the diagnostic endpoint.
func FixedLeaderCount() int {
	return len(fixedLeaders)
}
