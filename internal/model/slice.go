package model

// Slice 分页结果：只告诉调用方有没有下一页，不返回总数
type Slice[T any] struct {
	Items   []T  `json:"list"`
	Page    int  `json:"page"`
	Size    int  `json:"size"`
	HasNext bool `json:"has_next"`
}

// PageRequest 页码从 0 开始
type PageRequest struct {
	Page int
	Size int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
	MaxPage         = 10000 // Page*MaxPageSize 不会溢出
)

// Normalize 修正非法页码和页大小，超出上限的截到上限
func (p PageRequest) Normalize() PageRequest {
	switch {
	case p.Page < 0:
		p.Page = 0
	case p.Page > MaxPage:
		p.Page = MaxPage
	}
	switch {
	case p.Size <= 0:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// SliceOf 查询时多取一条(limit+1)，据此判断是否还有下一页
func SliceOf[T any](rows []T, p PageRequest) Slice[T] {
	hasNext := false
	if len(rows) > p.Size {
		rows = rows[:p.Size]
		hasNext = true
	}
	if rows == nil {
		rows = []T{}
	}
	return Slice[T]{Items: rows, Page: p.Page, Size: p.Size, HasNext: hasNext}
}
