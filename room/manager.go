// room/manager.go
package room

import (
	"strings"
	"sync"
)

// Canonical 把房间码规整成大小写无关的标准形式
func Canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Manager 管理所有在线房间。code -> Room 是唯一被多方并发
// 修改的结构。
type Manager struct {
	rooms map[string]*Room
	mutex sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
	}
}

// Reserve 在一次原子步骤里完成查重和登记。撞码返回 false，
// 调用方换码重试。
func (m *Manager) Reserve(code string, r *Room) bool {
	key := Canonical(code)

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.rooms[key]; exists {
		return false
	}
	m.rooms[key] = r
	return true
}

// Get 按房间码查找
func (m *Manager) Get(code string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	r, exists := m.rooms[Canonical(code)]
	return r, exists
}

// Remove 摘除并停掉一个房间
func (m *Manager) Remove(code string) (*Room, bool) {
	key := Canonical(code)

	m.mutex.Lock()
	r, exists := m.rooms[key]
	if exists {
		delete(m.rooms, key)
	}
	m.mutex.Unlock()

	if exists {
		r.Stop()
	}
	return r, exists
}

// Rooms 返回当前房间的副本切片
func (m *Manager) Rooms() []*Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

func (m *Manager) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// StopAll 停掉全部房间并清空表，进程退出时调用
func (m *Manager) StopAll() {
	m.mutex.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.rooms = make(map[string]*Room)
	m.mutex.Unlock()

	for _, r := range rooms {
		r.Stop()
	}
}
