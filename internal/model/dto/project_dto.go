package dto

import "time"

// ProjectData 项目详情
type ProjectData struct {
	ID               string    `json:"id"`
	OwnerHandle      string    `json:"owner_handle,omitempty"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	LongDescription  string    `json:"long_description"`
	Image            string    `json:"image"`
	AdditionalImages []string  `json:"additional_images"`
	Categories       []string  `json:"categories"`
	Technologies     []string  `json:"technologies"`
	Tags             []string  `json:"tags"`
	DemoURL          string    `json:"demo_url"`
	RepoURL          string    `json:"repo_url"`
	Likes            int64     `json:"likes"`
	Comments         int64     `json:"comments"`
	Views            int64     `json:"views"`
	CreatedAt        time.Time `json:"created_at"`
	LastUpdated      time.Time `json:"last_updated"`
	CreatedLabel     string    `json:"created_label,omitempty"`
}

// ProjectRequest 创建/更新项目
type ProjectRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	LongDescription  string   `json:"long_description"`
	Image            string   `json:"image"`
	AdditionalImages []string `json:"additional_images"`
	Categories       []string `json:"categories"`
	Technologies     []string `json:"technologies"`
	Tags             []string `json:"tags"`
	DemoURL          string   `json:"demo_url"`
	RepoURL          string   `json:"repo_url"`
}

// ProjectFeedQuery 项目流筛选参数
type ProjectFeedQuery struct {
	Category string `query:"category"`
	Filter   string `query:"filter"`
	Sort     string `query:"sort"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}
