package catalog

// InterestCategory 兴趣分组，仅用于展示。
type InterestCategory struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

var interestCategories = []InterestCategory{
	{Name: "Development", Options: []string{
		"Web Development", "Mobile Apps", "Game Development", "AI & Machine Learning",
		"Blockchain", "DevOps", "Backend Development", "Frontend Development",
		"Cloud Computing", "Cybersecurity", "Data Science", "IoT", "AR/VR Development",
	}},
	{Name: "Design", Options: []string{
		"UI/UX Design", "Graphic Design", "3D Modeling", "Animation", "Illustration",
		"Product Design", "Motion Graphics", "Typography", "Brand Identity",
		"Design Systems", "Web Design", "Game Design", "Interaction Design",
	}},
	{Name: "Business", Options: []string{
		"Startups", "Marketing", "Product Management", "Entrepreneurship", "Freelancing",
		"E-commerce", "Growth Hacking", "Business Strategy", "Sales", "Finance",
		"Venture Capital", "Business Analytics", "Remote Work",
	}},
	{Name: "Content", Options: []string{
		"Writing", "Video Production", "Podcasting", "Social Media", "Blogging",
		"Content Strategy", "Technical Writing", "Copywriting", "Content Marketing",
		"Storytelling", "Newsletter Creation", "SEO", "Community Building",
	}},
	{Name: "Creative", Options: []string{
		"Photography", "Music Production", "Film Making", "Digital Art", "Creative Writing",
		"Crafting", "Fashion Design", "Interior Design", "Sculpture", "Painting",
		"Performing Arts", "Culinary Arts",
	}},
	{Name: "Technology", Options: []string{
		"Artificial Intelligence", "Robotics", "Quantum Computing", "Biotechnology",
		"Nanotechnology", "Space Technology", "Clean Tech", "Wearable Tech", "Smart Home",
		"Cryptocurrency", "NFTs", "Metaverse",
	}},
	{Name: "Education", Options: []string{
		"Online Learning", "EdTech", "Teaching", "Curriculum Development",
		"Language Learning", "STEM Education", "Lifelong Learning",
		"Educational Psychology", "Academic Research", "Mentoring", "Coaching",
	}},
	{Name: "Health & Wellness", Options: []string{
		"Mental Health", "Fitness", "Nutrition", "Meditation", "Healthcare Tech",
		"Telemedicine", "Biohacking", "Sleep Science", "Yoga", "Personal Development",
		"Mindfulness",
	}},
}

var interestSet = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, c := range interestCategories {
		for _, o := range c.Options {
			set[o] = struct{}{}
		}
	}
	return set
}()

// InterestCategories 返回兴趣分组的深拷贝。
func InterestCategories() []InterestCategory {
	out := make([]InterestCategory, len(interestCategories))
	for i, c := range interestCategories {
		out[i] = InterestCategory{Name: c.Name, Options: append([]string(nil), c.Options...)}
	}
	return out
}

// HasInterest 判断兴趣是否在目录内。
func HasInterest(name string) bool {
	_, ok := interestSet[name]
	return ok
}
