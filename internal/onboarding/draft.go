package onboarding

import "strings"

// 社交平台名称，SocialHandles 的合法键。
const (
	PlatformGitHub   = "github"
	PlatformTwitter  = "twitter"
	PlatformTelegram = "telegram"
	PlatformSlack    = "slack"
	PlatformDiscord  = "discord"
	PlatformLinkedIn = "linkedin"
	PlatformWebsite  = "website"
)

var platforms = []string{
	PlatformGitHub,
	PlatformTwitter,
	PlatformTelegram,
	PlatformSlack,
	PlatformDiscord,
	PlatformLinkedIn,
	PlatformWebsite,
}

// Platforms 返回支持的社交平台列表。
func Platforms() []string {
	out := make([]string, len(platforms))
	copy(out, platforms)
	return out
}

// KnownPlatform 判断平台名称是否受支持。
func KnownPlatform(name string) bool {
	for _, p := range platforms {
		if p == name {
			return true
		}
	}
	return false
}

// NormalizeHandle 用户名唯一性按去除首尾空白后的小写形式比较。
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

// Draft 引导过程中逐步累积的用户资料，完成前不会持久化。
// 零值即为空草稿。
type Draft struct {
	Name            string            `json:"name"`
	Handle          string            `json:"handle"`
	ShortBio        string            `json:"short_bio"`
	AvatarReference string            `json:"avatar_reference"`
	ContactEmail    string            `json:"contact_email"`
	SocialHandles   map[string]string `json:"social_handles,omitempty"`
	Interests       []string          `json:"interests,omitempty"`
	JoinedSpaceIDs  []string          `json:"joined_space_ids,omitempty"`
}

// DraftPatch 单次合并的部分更新，nil 字段表示不修改。
type DraftPatch struct {
	Name            *string `json:"name,omitempty"`
	Handle          *string `json:"handle,omitempty"`
	ShortBio        *string `json:"short_bio,omitempty"`
	AvatarReference *string `json:"avatar_reference,omitempty"`
	ContactEmail    *string `json:"contact_email,omitempty"`
	// 按平台逐项合并，空字符串表示清除该平台。
	SocialHandles  map[string]string `json:"social_handles,omitempty"`
	Interests      *[]string         `json:"interests,omitempty"`
	JoinedSpaceIDs *[]string         `json:"joined_space_ids,omitempty"`
}

// IsZero 判断补丁是否不含任何修改。
func (p DraftPatch) IsZero() bool {
	return p.Name == nil && p.Handle == nil && p.ShortBio == nil &&
		p.AvatarReference == nil && p.ContactEmail == nil &&
		len(p.SocialHandles) == 0 && p.Interests == nil && p.JoinedSpaceIDs == nil
}

// Merge 浅合并补丁，逐字段后写覆盖，不做任何校验。
func (d *Draft) Merge(p DraftPatch) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Handle != nil {
		d.Handle = *p.Handle
	}
	if p.ShortBio != nil {
		d.ShortBio = *p.ShortBio
	}
	if p.AvatarReference != nil {
		d.AvatarReference = *p.AvatarReference
	}
	if p.ContactEmail != nil {
		d.ContactEmail = *p.ContactEmail
	}
	for platform, handle := range p.SocialHandles {
		if handle == "" {
			delete(d.SocialHandles, platform)
			continue
		}
		if d.SocialHandles == nil {
			d.SocialHandles = make(map[string]string, len(p.SocialHandles))
		}
		d.SocialHandles[platform] = handle
	}
	if p.Interests != nil {
		d.Interests = cloneStrings(*p.Interests)
	}
	if p.JoinedSpaceIDs != nil {
		d.JoinedSpaceIDs = cloneStrings(*p.JoinedSpaceIDs)
	}
}

// ToggleInterest 切换兴趣标签：存在则移除，否则追加。
func (d *Draft) ToggleInterest(interest string) {
	d.Interests = Toggle(d.Interests, interest)
}

// ToggleSpace 切换加入的空间。
func (d *Draft) ToggleSpace(spaceID string) {
	d.JoinedSpaceIDs = Toggle(d.JoinedSpaceIDs, spaceID)
}

func (d Draft) HasInterest(interest string) bool { return indexOf(d.Interests, interest) >= 0 }
func (d Draft) HasSpace(spaceID string) bool     { return indexOf(d.JoinedSpaceIDs, spaceID) >= 0 }

// IsEmpty 判断草稿是否与初始状态一致。
func (d Draft) IsEmpty() bool {
	return d.Name == "" && d.Handle == "" && d.ShortBio == "" &&
		d.AvatarReference == "" && d.ContactEmail == "" &&
		len(d.SocialHandles) == 0 && len(d.Interests) == 0 && len(d.JoinedSpaceIDs) == 0
}

// Normalized 返回用于持久化的副本：去除首尾空白，用户名转小写。
func (d Draft) Normalized() Draft {
	out := d.Clone()
	out.Name = strings.TrimSpace(d.Name)
	out.Handle = NormalizeHandle(d.Handle)
	out.ShortBio = strings.TrimSpace(d.ShortBio)
	out.AvatarReference = strings.TrimSpace(d.AvatarReference)
	out.ContactEmail = strings.TrimSpace(d.ContactEmail)
	return out
}

// Clone 深拷贝，避免调用方持有内部切片与 map。
func (d Draft) Clone() Draft {
	out := d
	if d.SocialHandles != nil {
		out.SocialHandles = make(map[string]string, len(d.SocialHandles))
		for k, v := range d.SocialHandles {
			out.SocialHandles[k] = v
		}
	}
	out.Interests = cloneStrings(d.Interests)
	out.JoinedSpaceIDs = cloneStrings(d.JoinedSpaceIDs)
	return out
}

// Toggle 对集合做单元素的对称差：value 存在则删除，不存在则追加到末尾。
// 线性扫描，集合规模在几十以内。返回新切片，不修改入参。
func Toggle(set []string, value string) []string {
	i := indexOf(set, value)
	if i < 0 {
		out := make([]string, len(set), len(set)+1)
		copy(out, set)
		return append(out, value)
	}

	out := make([]string, 0, len(set)-1)
	out = append(out, set[:i]...)
	return append(out, set[i+1:]...)
}

func indexOf(set []string, value string) int {
	for i, v := range set {
		if v == value {
			return i
		}
	}
	return -1
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
