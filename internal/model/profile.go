package model

// Profile 社区成员资料，引导完成时创建。
type Profile struct {
	BaseModel
	PublicID      int64         `gorm:"uniqueIndex;not null" json:"public_id"`
	Name          string        `gorm:"type:varchar(100);not null" json:"name"`
	Handle        string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"handle"`
	Title         string        `gorm:"type:varchar(120);not null;default:''" json:"title"`
	Bio           string        `gorm:"type:text;not null;default:''" json:"bio"`
	AvatarURL     string        `gorm:"type:varchar(512);not null;default:''" json:"avatar_url"`
	Location      string        `gorm:"type:varchar(120);not null;default:''" json:"location"`
	Email         string        `gorm:"type:varchar(255);not null" json:"email"`
	SocialHandles SocialHandles `gorm:"type:jsonb;not null;default:'{}'" json:"social_handles"`
	Skills        StringList    `gorm:"type:jsonb;not null;default:'[]'" json:"skills"`
	Interests     StringList    `gorm:"type:jsonb;not null;default:'[]'" json:"interests"`
	JoinedSpaces  StringList    `gorm:"type:jsonb;not null;default:'[]'" json:"joined_spaces"`
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}
