// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/socialoop/partyhost/models"
)

// Source 提供一包玩法内容。实现负责自己的连接与缓存策略。
type Source interface {
	LoadPack() (*models.ContentPack, error)
	Close() error
}

// 错误定义
var (
	ErrNoContent = fmt.Errorf("no content available")
)
