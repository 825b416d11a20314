package model

// Project 成员发布的作品。
type Project struct {
	BaseModel
	PublicID         int64      `gorm:"uniqueIndex;not null" json:"public_id"`
	OwnerID          int64      `gorm:"index:idx_projects_owner;not null" json:"owner_id"` // profiles.id
	Title            string     `gorm:"type:varchar(200);not null" json:"title"`
	Description      string     `gorm:"type:text;not null" json:"description"`
	LongDescription  string     `gorm:"type:text;not null;default:''" json:"long_description"`
	Image            string     `gorm:"type:varchar(512);not null" json:"image"`
	AdditionalImages StringList `gorm:"type:jsonb;not null;default:'[]'" json:"additional_images"`
	Categories       StringList `gorm:"type:jsonb;not null;default:'[]'" json:"categories"`
	Technologies     StringList `gorm:"type:jsonb;not null;default:'[]'" json:"technologies"`
	Tags             StringList `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	DemoURL          string     `gorm:"type:varchar(512);not null;default:''" json:"demo_url"`
	RepoURL          string     `gorm:"type:varchar(512);not null;default:''" json:"repo_url"`
	Likes            int64      `gorm:"not null;default:0" json:"likes"`
	Comments         int64      `gorm:"not null;default:0" json:"comments"`
	Views            int64      `gorm:"not null;default:0" json:"views"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}
