package wizard

import (
	"errors"
	"fmt"
)

// ErrPageOutOfRange 页码超出 [1, Total]
var ErrPageOutOfRange = errors.New("page out of range")

// Progress 向导页码（1 起），只负责边界，不校验页面是否填完
type Progress struct {
	current int
	total   int
}

// NewProgress total < 1 时按 1 处理
func NewProgress(total int) *Progress {
	if total < 1 {
		total = 1
	}
	return &Progress{current: 1, total: total}
}

func (p *Progress) Current() int { return p.current }
func (p *Progress) Total() int   { return p.total }

// Next 前进一页；已在最后一页时返回 false
func (p *Progress) Next() bool {
	if p.current >= p.total {
		return false
	}
	p.current++
	return true
}

// Back 后退一页；已在第一页时返回 false
func (p *Progress) Back() bool {
	if p.current <= 1 {
		return false
	}
	p.current--
	return true
}

// GoTo 跳转到指定页
func (p *Progress) GoTo(n int) error {
	if n < 1 || n > p.total {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrPageOutOfRange, n, p.total)
	}
	p.current = n
	return nil
}

// Percent current/total*100
func (p *Progress) Percent() float64 {
	return float64(p.current) / float64(p.total) * 100
}

// IsLast 是否最后一页（提交页）
func (p *Progress) IsLast() bool { return p.current == p.total }
