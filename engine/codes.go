// engine/codes.go
package engine

import (
	"crypto/rand"
	"math/big"
)

// 房间码字符表，去掉了 0/O/1/I/L 这些容易念错的字符
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// CodeLength 是房间码的长度，31^6 约 8.9 亿个组合
const CodeLength = 6

// GenerateCode 生成一个随机房间码。用 crypto/rand 逐字符取样，
// 避免取模偏差。
func GenerateCode() string {
	buf := make([]byte, CodeLength)
	limit := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf)
}
