package list

// List 线性表，下标从 0 开始
type List[T any] interface {
	// Get 返回下标 index 处的元素
	Get(index int) (T, error)
	// Append 在末尾追加元素
	Append(ts ...T) error
	// Add 在 index 处插入元素，index == Len() 时等价于 Append
	Add(index int, t T) error
	// Delete 删除并返回 index 处的元素
	Delete(index int) (T, error)
	Len() int
	// Range 遍历，fn 返回错误时中断遍历
	Range(fn func(index int, t T) error) error
	// AsSlice 返回一份拷贝
	AsSlice() []T
}
