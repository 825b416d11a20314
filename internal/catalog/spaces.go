// Package catalog 保存引导与项目表单使用的静态目录：社区空间、兴趣标签、项目分类与技术栈。
package catalog

// Space 社区空间。BaseMembers 为上线时导入的成员数，实际成员数还需加上 space_members 表中的记录。
type Space struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BaseMembers int    `json:"base_members"`
	Image       string `json:"image"`
}

var spaces = []Space{
	{
		ID:          "1",
		Name:        "Frontend Developers",
		Description: "A community for frontend developers to share knowledge, discuss trends, and collaborate on projects.",
		BaseMembers: 2453,
		Image:       "https://images.unsplash.com/photo-1517180102446-f3ece451e9d8?auto=format&fit=crop&w=500&h=300&q=80",
	},
	{
		ID:          "2",
		Name:        "Mobile App Builders",
		Description: "Connect with other mobile app developers, share your work, and get feedback on your projects.",
		BaseMembers: 1872,
		Image:       "https://images.unsplash.com/photo-1551650975-87deedd944c3?auto=format&fit=crop&w=500&h=300&q=80",
	},
	{
		ID:          "3",
		Name:        "AI & ML Enthusiasts",
		Description: "Explore the world of artificial intelligence and machine learning with like-minded enthusiasts.",
		BaseMembers: 3241,
		Image:       "https://images.unsplash.com/photo-1535378917042-10a22c95931a?auto=format&fit=crop&w=500&h=300&q=80",
	},
	{
		ID:          "4",
		Name:        "Startup Founders",
		Description: "A space for startup founders to connect, share experiences, and help each other grow their businesses.",
		BaseMembers: 1563,
		Image:       "https://images.unsplash.com/photo-1559136555-9303baea8ebd?auto=format&fit=crop&w=500&h=300&q=80",
	},
	{
		ID:          "5",
		Name:        "Content Creators",
		Description: "For bloggers, vloggers, podcasters, and all types of content creators to network and collaborate.",
		BaseMembers: 2187,
		Image:       "https://images.unsplash.com/photo-1533750516457-a7f992034fec?auto=format&fit=crop&w=500&h=300&q=80",
	},
	{
		ID:          "6",
		Name:        "Game Developers",
		Description: "Connect with game developers, share your projects, and discuss game development techniques.",
		BaseMembers: 1932,
		Image:       "https://images.unsplash.com/photo-1511512578047-dfb367046420?auto=format&fit=crop&w=500&h=300&q=80",
	},
	{
		ID:          "7",
		Name:        "UI/UX Designers",
		Description: "A community for designers to share their work, get feedback, and discuss design principles.",
		BaseMembers: 2765,
		Image:       "https://images.unsplash.com/photo-1561070791-2526d30994b5?auto=format&fit=crop&w=500&h=300&q=80",
	},
	{
		ID:          "8",
		Name:        "Blockchain Innovators",
		Description: "Explore blockchain technology, cryptocurrencies, and decentralized applications.",
		BaseMembers: 1456,
		Image:       "https://images.unsplash.com/photo-1639762681057-408e52192e55?auto=format&fit=crop&w=500&h=300&q=80",
	},
	{
		ID:          "9",
		Name:        "Remote Workers",
		Description: "Connect with other remote workers, share tips, and discuss the challenges of remote work.",
		BaseMembers: 3421,
		Image:       "https://images.unsplash.com/photo-1522202176988-66273c2fd55f?auto=format&fit=crop&w=500&h=300&q=80",
	},
}

var spaceIndex = func() map[string]int {
	idx := make(map[string]int, len(spaces))
	for i, s := range spaces {
		idx[s.ID] = i
	}
	return idx
}()

// Spaces 按展示顺序返回全部空间的副本。
func Spaces() []Space {
	out := make([]Space, len(spaces))
	copy(out, spaces)
	return out
}

// SpaceByID 查找空间。
func SpaceByID(id string) (Space, bool) {
	i, ok := spaceIndex[id]
	if !ok {
		return Space{}, false
	}
	return spaces[i], true
}

// HasSpace 判断空间 ID 是否存在。
func HasSpace(id string) bool {
	_, ok := spaceIndex[id]
	return ok
}
