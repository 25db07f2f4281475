package model

const ProductOptionActive = "ACTIVE"

// Product 商品目录由外部维护
type Product struct {
	ID      uint64          `gorm:"primaryKey" json:"id"`
	Name    string          `gorm:"size:200;not null;index" json:"name"`
	Price   int64           `gorm:"not null;default:0" json:"price"`
	Options []ProductOption `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string { return "product" }

// HasOption 按 id 判断 option 是否属于该商品
func (p *Product) HasOption(optionID uint64) bool {
	for _, o := range p.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

type ProductOption struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	ProductID uint64 `gorm:"not null;index" json:"product_id"`
	Name      string `gorm:"size:100" json:"name"`
	Status    string `gorm:"size:16;not null;default:'ACTIVE'" json:"status"`
}

func (ProductOption) TableName() string { return "product_option" }

type AnniversaryCategory struct {
	ID   uint64 `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;not null" json:"name"`
}

func (AnniversaryCategory) TableName() string { return "anniversary_category" }
