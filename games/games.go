// games/games.go
package games

import (
	"strings"

	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/services"
)

// RegisterAll 把全部内置玩法登记进注册表，键取各自 Descriptor 的
// 类型名。内容都来自注入的内容服务。
func RegisterAll(reg *game.Registry, content *services.ContentService) error {
	factories := []game.Factory{
		func() game.Handler { return NewTrivia(content) },
		func() game.Handler { return NewQuizBoard(content) },
		func() game.Handler { return NewPrediction(content) },
		func() game.Handler { return NewWavelength(content) },
		func() game.Handler { return NewInfiltrator(content) },
		func() game.Handler { return NewCipher(content) },
		func() game.Handler { return NewWouldYouRather(content) },
		func() game.Handler { return NewTwoTruths() },
		func() game.Handler { return NewSketchDuel(content) },
		func() game.Handler { return NewWheel(content) },
		func() game.Handler { return NewFamilyFeud(content) },
	}
	for _, factory := range factories {
		if err := reg.Register(factory().Descriptor().Type, factory); err != nil {
			return err
		}
	}
	return nil
}

// normalize 把自由文本答案规整成可比较形式：小写、去首尾空白、
// 压缩词间空格
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// dataMap 取出回合数据里的嵌套表，缺失时返回 nil
func dataMap(st *game.State, key string) map[string]interface{} {
	m, _ := st.Data[key].(map[string]interface{})
	return m
}

// dataStrings 取出回合数据里的字符串序列
func dataStrings(st *game.State, key string) []string {
	s, _ := st.Data[key].([]string)
	return s
}

// dataInt 取出回合数据里的整数字段
func dataInt(st *game.State, key string) (int, bool) {
	return asInt(st.Data[key])
}

// dataString 取出回合数据里的字符串字段
func dataString(st *game.State, key string) string {
	s, _ := st.Data[key].(string)
	return s
}

// intEntry 按整数读嵌套表的一项，兼容 JSON 解码出的 float64
func intEntry(m map[string]interface{}, key string) (int, bool) {
	return asInt(m[key])
}

func floatEntry(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func stringEntry(m map[string]interface{}, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
