package dto

import "time"

// ProfileData 对外展示的成员资料。
type ProfileData struct {
	ID            string            `json:"id"` // public_id
	Name          string            `json:"name"`
	Handle        string            `json:"handle"`
	Title         string            `json:"title"`
	Bio           string            `json:"bio"`
	AvatarURL     string            `json:"avatar_url"`
	Location      string            `json:"location"`
	Email         string            `json:"email,omitempty"`
	SocialHandles map[string]string `json:"social_handles"`
	Skills        []string          `json:"skills"`
	Interests     []string          `json:"interests"`
	JoinedSpaces  []string          `json:"joined_spaces"`
	CreatedAt     time.Time         `json:"created_at"`
}

// UpdateProfileRequest 更新资料，nil 字段不修改。
type UpdateProfileRequest struct {
	Name          *string           `json:"name,omitempty"`
	Title         *string           `json:"title,omitempty"`
	Bio           *string           `json:"bio,omitempty"`
	AvatarURL     *string           `json:"avatar_url,omitempty"`
	Location      *string           `json:"location,omitempty"`
	Email         *string           `json:"email,omitempty"`
	SocialHandles map[string]string `json:"social_handles,omitempty"`
	Skills        *[]string         `json:"skills,omitempty"`
	Interests     *[]string         `json:"interests,omitempty"`
}
