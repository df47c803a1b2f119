package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 构造子串匹配的 LIKE 参数，需配合 ESCAPE '\' 使用
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// likeClause 不区分大小写的 LIKE，值始终走绑定参数
func likeClause(expr string) string {
	return "LOWER(" + expr + ") LIKE LOWER(?) ESCAPE '\\'"
}
