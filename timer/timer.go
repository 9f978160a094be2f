// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// 调度分辨率。阶段时长都在秒级，20ms 的误差可以接受。
const resolution = 20 * time.Millisecond

// task 是一个待触发的定时任务
type task struct {
	id       int64
	execute  time.Time
	interval time.Duration
	fn       func()
	index    int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].execute.Before(q[j].execute)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	t := x.(*task)
	t.index = n
	*q = append(*q, t)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	t.index = -1
	*q = old[0 : n-1]
	return t
}

// Scheduler 驱动所有房间的阶段到期和周期任务。到期回调在独立
// goroutine 中执行；回调只负责把超时事件投递回所属房间的队列，
// 绝不直接改游戏状态。
type Scheduler struct {
	queue   taskQueue
	mutex   sync.Mutex
	nextID  int64
	fired   chan *task
	done    chan struct{}
	stopped sync.Once
}

func NewScheduler() *Scheduler {
	s := &Scheduler{
		queue:  make(taskQueue, 0),
		fired:  make(chan *task, 1024),
		done:   make(chan struct{}),
		nextID: 1,
	}
	heap.Init(&s.queue)
	go s.process()
	return s
}

// After schedules fn to run once after delay. Returns the task id.
func (s *Scheduler) After(delay time.Duration, fn func()) int64 {
	return s.schedule(delay, 0, fn)
}

// Repeat schedules fn every interval, first firing one interval from
// now. Runs until cancelled.
func (s *Scheduler) Repeat(interval time.Duration, fn func()) int64 {
	return s.schedule(interval, interval, fn)
}

func (s *Scheduler) schedule(delay, interval time.Duration, fn func()) int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	t := &task{
		id:       s.nextID,
		execute:  time.Now().Add(delay),
		interval: interval,
		fn:       fn,
	}
	s.nextID++

	heap.Push(&s.queue, t)
	return t.id
}

// Cancel removes a pending task. Cancelling an already-fired or
// unknown id is a no-op.
func (s *Scheduler) Cancel(id int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, t := range s.queue {
		if t.id == id {
			heap.Remove(&s.queue, i)
			break
		}
	}
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.queue.Len()
}

// Stop terminates the dispatch loop. Queued tasks never fire.
func (s *Scheduler) Stop() {
	s.stopped.Do(func() {
		close(s.done)
	})
}

func (s *Scheduler) process() {
	ticker := time.NewTicker(resolution)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mutex.Lock()
			now := time.Now()

			for s.queue.Len() > 0 {
				t := s.queue[0]
				if t.execute.After(now) {
					break
				}

				heap.Pop(&s.queue)
				delivered := true
				select {
				case s.fired <- t:
				default:
					// 触发通道满时放回队列，下个tick重试
					heap.Push(&s.queue, t)
					delivered = false
				}

				if delivered && t.interval > 0 {
					next := *t
					next.execute = now.Add(t.interval)
					heap.Push(&s.queue, &next)
				}
			}
			s.mutex.Unlock()

		case t := <-s.fired:
			go t.fn()

		case <-s.done:
			return
		}
	}
}
