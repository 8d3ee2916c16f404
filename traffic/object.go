package traffic

import (
	"context"
	"sync"
	"sync/atomic"
)

// ObjectType 交通对象的种类
type ObjectType int

const (
	ObjectNone ObjectType = iota
	ObjectVehicle
	ObjectIntersection
	ObjectStreet
	ObjectLight
)

func (t ObjectType) String() string {
	switch t {
	case ObjectVehicle:
		return "vehicle"
	case ObjectIntersection:
		return "intersection"
	case ObjectStreet:
		return "street"
	case ObjectLight:
		return "light"
	default:
		return "none"
	}
}

// Simulator 可以在后台运行的交通对象
type Simulator interface {
	ID() int64
	Type() ObjectType
	// Simulate 启动后台行为，不阻塞调用方
	Simulate(ctx context.Context) error
}

// IDGenerator 分配进程内唯一的对象 id，从 1 开始
type IDGenerator struct {
	last atomic.Int64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

func (g *IDGenerator) Next() int64 {
	return g.last.Add(1)
}

var defaultIDs = NewIDGenerator()

// DefaultIDs 没有指定 IDGenerator 的对象都从这里拿 id
func DefaultIDs() *IDGenerator {
	return defaultIDs
}

// Object 交通对象的公共部分：id、种类、位置，以及它启动的 goroutine
type Object struct {
	id  int64
	typ ObjectType

	mu   sync.RWMutex
	posX float64
	posY float64

	threads *Threads
}

func NewObject(typ ObjectType, ids *IDGenerator) *Object {
	if ids == nil {
		ids = defaultIDs
	}
	return &Object{
		id:      ids.Next(),
		typ:     typ,
		threads: &Threads{},
	}
}

func (o *Object) ID() int64 {
	return o.id
}

func (o *Object) Type() ObjectType {
	return o.typ
}

// SetPosition 设置位置，单位是像素
func (o *Object) SetPosition(x, y float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.posX, o.posY = x, y
}

func (o *Object) Position() (x, y float64) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.posX, o.posY
}

// Threads 这个对象启动的所有 goroutine
func (o *Object) Threads() *Threads {
	return o.threads
}
