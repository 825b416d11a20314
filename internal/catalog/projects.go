package catalog

var projectCategories = []string{
	"Web Development",
	"Mobile Development",
	"Game Development",
	"AI & Machine Learning",
	"Data Visualization",
	"IoT",
	"Blockchain",
	"AR/VR",
	"Design",
	"Productivity",
	"Education",
	"Entertainment",
}

var technologies = []string{
	"JavaScript", "TypeScript", "React", "Vue.js", "Angular", "Node.js", "Express",
	"Next.js", "Nuxt.js", "Python", "Django", "Flask", "Ruby", "Ruby on Rails", "PHP",
	"Laravel", "Java", "Spring Boot", "C#", ".NET", "Go", "Rust", "Swift", "Kotlin",
	"Flutter", "React Native", "HTML", "CSS", "Sass/SCSS", "Tailwind CSS", "Bootstrap",
	"Material UI", "GraphQL", "REST API", "MongoDB", "PostgreSQL", "MySQL", "Redis",
	"Firebase", "AWS", "Azure", "Google Cloud", "Docker", "Kubernetes", "CI/CD", "Git",
	"WebSockets", "WebRTC", "TensorFlow", "PyTorch", "Machine Learning",
	"Artificial Intelligence", "Data Science", "Blockchain", "Ethereum", "Solidity",
	"Web3", "Unity", "Unreal Engine", "Three.js", "WebGL", "AR/VR", "Figma", "Adobe XD",
	"Sketch", "UI/UX Design",
}

var (
	categorySet   = toSet(projectCategories)
	technologySet = toSet(technologies)
)

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// ProjectCategories 项目分类。
func ProjectCategories() []string { return append([]string(nil), projectCategories...) }

// Technologies 项目技术栈选项。
func Technologies() []string { return append([]string(nil), technologies...) }

func HasProjectCategory(name string) bool {
	_, ok := categorySet[name]
	return ok
}

func HasTechnology(name string) bool {
	_, ok := technologySet[name]
	return ok
}
