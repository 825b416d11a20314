package model

// ProfileOnboardedMessage 引导完成后投递，worker 据此写入空间成员关系。
type ProfileOnboardedMessage struct {
	MessageID      string   `json:"message_id"` // 幂等键
	ProfileID      int64    `json:"profile_id"` // profiles.id
	PublicID       int64    `json:"public_id"`
	Handle         string   `json:"handle"`
	Interests      []string `json:"interests"`
	JoinedSpaceIDs []string `json:"joined_space_ids"`
	OccurredAt     string   `json:"occurred_at"` // RFC3339
}
