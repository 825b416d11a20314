package model

import "time"

// SpaceMember 成员加入空间的记录，(profile_id, space_id) 唯一。
type SpaceMember struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID int64     `gorm:"uniqueIndex:idx_space_members_profile_space;not null" json:"profile_id"`
	SpaceID   string    `gorm:"type:varchar(32);uniqueIndex:idx_space_members_profile_space;index:idx_space_members_space;not null" json:"space_id"`
	JoinedAt  time.Time `gorm:"type:timestamptz;not null;default:now()" json:"joined_at"`
}

// TableName 指定表名
func (SpaceMember) TableName() string {
	return "space_members"
}
