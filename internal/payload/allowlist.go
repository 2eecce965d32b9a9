package payload

import "strings"

// AllowedLibraries interactive 章节代码可以请求加载的库。
// 客户端执行器只会导入这里列出的库，新增条目需要安全评审。
var AllowedLibraries = []string{
	"react",
	"react-dom",
	"recharts",
	"d3",
	"lodash",
	"mathjs",
	"chart.js",
	"date-fns",
	"lucide-react",
	"framer-motion",
}

func IsAllowedLibrary(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, lib := range AllowedLibraries {
		if lib == name {
			return true
		}
	}
	return false
}
