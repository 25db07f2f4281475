package handler

import (
	"time"

	"Fundingift/internal/model"
	"Fundingift/internal/pkg"
)

type createFundingReq struct {
	ProductID             uint64 `json:"product_id" binding:"required"`
	ProductOptionID       uint64 `json:"product_option_id" binding:"required"`
	AnniversaryCategoryID uint64 `json:"anniversary_category_id" binding:"required"`
	Title                 string `json:"title" binding:"max=100"`
	Content               string `json:"content" binding:"max=2000"`
	StartDate             string `json:"start_date" binding:"required,datetime=2006-01-02"`
	AnniversaryDate       string `json:"anniversary_date" binding:"required,datetime=2006-01-02"`
	EndDate               string `json:"end_date" binding:"required,datetime=2006-01-02"`
	IsPrivate             bool   `json:"is_private"`
}

type fundingResp struct {
	ID              uint64    `json:"id"`
	ConsumerID      uint64    `json:"consumer_id"`
	ConsumerName    string    `json:"consumer_name"`
	ProductID       uint64    `json:"product_id"`
	ProductName     string    `json:"product_name"`
	Title           string    `json:"title"`
	Content         string    `json:"content,omitempty"`
	StartDate       string    `json:"start_date"`
	AnniversaryDate string    `json:"anniversary_date"`
	EndDate         string    `json:"end_date"`
	IsPrivate       bool      `json:"is_private"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func fundingRespOf(f *model.Funding) fundingResp {
	r := fundingResp{
		ID:              f.ID,
		ConsumerID:      f.ConsumerID,
		ProductID:       f.ProductID,
		Title:           f.Title,
		Content:         f.Content,
		StartDate:       f.StartDate.Format(pkg.DateLayout),
		AnniversaryDate: f.AnniversaryDate.Format(pkg.DateLayout),
		EndDate:         f.EndDate.Format(pkg.DateLayout),
		IsPrivate:       f.IsPrivate,
		Status:          string(f.Status),
		CreatedAt:       f.CreatedAt,
	}
	if f.Consumer != nil {
		r.ConsumerName = f.Consumer.Name
	}
	if f.Product != nil {
		r.ProductName = f.Product.Name
	}
	return r
}

func fundingListOf(list []model.Funding) []fundingResp {
	out := make([]fundingResp, 0, len(list))
	for i := range list {
		out = append(out, fundingRespOf(&list[i]))
	}
	return out
}

func fundingSliceOf(s model.Slice[model.Funding]) model.Slice[fundingResp] {
	return model.Slice[fundingResp]{
		Items:   fundingListOf(s.Items),
		Page:    s.Page,
		Size:    s.Size,
		HasNext: s.HasNext,
	}
}
