package list

import "traffic_sim/internal/errs"

var _ List[any] = &LinkedList[any]{}

type node[T any] struct {
	val  T
	prev *node[T]
	next *node[T]
}

// LinkedList 带哨兵节点的双向循环链表，非并发安全
// 零值不可用，请使用 NewLinkedList 创建
type LinkedList[T any] struct {
	// root.next 是第一个元素，root.prev 是最后一个元素
	root   *node[T]
	length int
}

func NewLinkedList[T any]() *LinkedList[T] {
	root := &node[T]{}
	root.next, root.prev = root, root
	return &LinkedList[T]{root: root}
}

// NewLinkedListOf 按切片顺序构建链表，元素值直接使用，不做深拷贝
func NewLinkedListOf[T any](ts []T) *LinkedList[T] {
	l := NewLinkedList[T]()
	_ = l.Append(ts...)
	return l
}

// nodeAt 调用方保证 index 合法；从离得近的一端开始找
func (l *LinkedList[T]) nodeAt(index int) *node[T] {
	if index < l.length/2 {
		cur := l.root.next
		for i := 0; i < index; i++ {
			cur = cur.next
		}
		return cur
	}
	cur := l.root.prev
	for i := l.length - 1; i > index; i-- {
		cur = cur.prev
	}
	return cur
}

// insertBefore 把 t 插到 at 前面
func (l *LinkedList[T]) insertBefore(at *node[T], t T) {
	n := &node[T]{val: t, prev: at.prev, next: at}
	at.prev.next = n
	at.prev = n
	l.length++
}

func (l *LinkedList[T]) Get(index int) (T, error) {
	if index < 0 || index >= l.length {
		var zero T
		return zero, errs.NewErrIndexOutOfRange(l.length, index)
	}
	return l.nodeAt(index).val, nil
}

func (l *LinkedList[T]) Append(ts ...T) error {
	for _, t := range ts {
		l.insertBefore(l.root, t)
	}
	return nil
}

func (l *LinkedList[T]) Add(index int, t T) error {
	if index < 0 || index > l.length {
		return errs.NewErrIndexOutOfRange(l.length, index)
	}
	if index == l.length {
		l.insertBefore(l.root, t)
		return nil
	}
	l.insertBefore(l.nodeAt(index), t)
	return nil
}

func (l *LinkedList[T]) Delete(index int) (T, error) {
	if index < 0 || index >= l.length {
		var zero T
		return zero, errs.NewErrIndexOutOfRange(l.length, index)
	}
	n := l.nodeAt(index)
	n.prev.next = n.next
	n.next.prev = n.prev
	// 断开引用，方便 GC
	n.prev, n.next = nil, nil
	l.length--
	return n.val, nil
}

func (l *LinkedList[T]) Len() int {
	return l.length
}

func (l *LinkedList[T]) Range(fn func(index int, t T) error) error {
	i := 0
	for cur := l.root.next; cur != l.root; cur = cur.next {
		if err := fn(i, cur.val); err != nil {
			return err
		}
		i++
	}
	return nil
}

func (l *LinkedList[T]) AsSlice() []T {
	res := make([]T, 0, l.length)
	for cur := l.root.next; cur != l.root; cur = cur.next {
		res = append(res, cur.val)
	}
	return res
}
