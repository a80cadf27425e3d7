package wizard

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

// ErrUnknownField 字段名在注册表中不存在
var ErrUnknownField = errors.New("unknown intake field")

// Lens 对 Intake 某个字段的类型化访问器
// set 作用于已深拷贝的记录，嵌套对象不存在时由 set 负责创建
type Lens[T any] struct {
	name string
	get  func(*domain.Intake) T
	set  func(*domain.Intake, T)
}

// Name 字段的稳定名称（HTTP 边界使用，如 "emergencyContact.phone"）
func (l Lens[T]) Name() string { return l.name }

// Get 读取字段值；嵌套对象不存在时返回零值
func (l Lens[T]) Get(in domain.Intake) T {
	return l.get(&in)
}

// Set 返回字段被替换后的新记录，原记录不变
func Set[T any](in domain.Intake, l Lens[T], v T) domain.Intake {
	out := in.Clone()
	l.set(&out, v)
	return out
}

// Modify 以函数形式修改字段
func Modify[T any](in domain.Intake, l Lens[T], fn func(T) T) domain.Intake {
	return Set(in, l, fn(l.Get(in)))
}

// Field 注册表里的无类型视图，供 JSON 边界使用
type Field interface {
	Name() string
	Value(in domain.Intake) any
	ApplyJSON(in domain.Intake, raw json.RawMessage) (domain.Intake, error)
}

// Value 实现 Field
func (l Lens[T]) Value(in domain.Intake) any { return l.Get(in) }

// ApplyJSON 解码 raw 为字段类型后写入
func (l Lens[T]) ApplyJSON(in domain.Intake, raw json.RawMessage) (domain.Intake, error) {
	var v T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			return in, fmt.Errorf("field %s: %w", l.name, err)
		}
	}
	return Set(in, l, v), nil
}

// Update 描述一次字段修改，页面只能通过 Update 改动记录
type Update interface {
	apply(domain.Intake) domain.Intake
}

type lensUpdate[T any] struct {
	lens  Lens[T]
	value T
}

func (u lensUpdate[T]) apply(in domain.Intake) domain.Intake {
	return Set(in, u.lens, u.value)
}

// To 构造一次字段修改
func (l Lens[T]) To(v T) Update {
	return lensUpdate[T]{lens: l, value: v}
}

// Apply 应用一组修改，返回新记录
func Apply(in domain.Intake, updates ...Update) domain.Intake {
	out := in
	for _, u := range updates {
		out = u.apply(out)
	}
	return out
}

// UpsertSignature 按 signatureType 替换已有签名或追加，其余签名相对顺序不变
func UpsertSignature(in domain.Intake, sig domain.Signature) domain.Intake {
	out := in.Clone()
	if i := domain.FindSignature(out.Signatures, sig.SignatureType); i >= 0 {
		out.Signatures[i] = sig.Clone()
		return out
	}
	out.Signatures = append(out.Signatures, sig.Clone())
	return out
}
