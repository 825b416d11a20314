package dto

// SpaceData 空间及当前成员数
type SpaceData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Members     int64  `json:"members"`
	Image       string `json:"image"`
}

// SpaceDetail 空间详情及最近加入的成员
type SpaceDetail struct {
	SpaceData
	RecentMembers []ProfileData `json:"recent_members"`
}
