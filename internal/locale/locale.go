// Package locale 负责语言标识的规范化以及翻译行的逐字段覆盖。
//
// 覆盖规则在 group/course/module/section 四个层级上完全一致：
// 翻译行不存在时整体使用默认语言；翻译行存在时，每个字段独立判断，
// 翻译值为空（NULL）则回退到默认语言的值。
package locale

import (
	"strings"
	"sync"
)

// Resolver 按配置规范化调用方传入的语言
type Resolver struct {
	mu        sync.RWMutex
	def       string
	supported map[string]bool
}

func NewResolver(def string, supported []string) *Resolver {
	r := &Resolver{}
	r.Update(def, supported)
	return r
}

// Update 配置热更新时替换默认语言和可用语言列表
func (r *Resolver) Update(def string, supported []string) {
	def = Normalize(def)
	if def == "" {
		def = "en"
	}
	set := make(map[string]bool, len(supported))
	for _, l := range supported {
		if l = Normalize(l); l != "" && l != def {
			set[l] = true
		}
	}

	r.mu.Lock()
	r.def = def
	r.supported = set
	r.mu.Unlock()
}

func (r *Resolver) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// Resolve 返回读取时使用的翻译语言；默认语言和不支持的语言都返回 ""（即读取基础字段）
func (r *Resolver) Resolve(requested string) string {
	l := Normalize(requested)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l == "" || l == r.def || !r.supported[l] {
		return ""
	}
	return l
}

// ForWrite 与 Resolve 相同，但不支持的语言返回 ok=false
func (r *Resolver) ForWrite(requested string) (string, bool) {
	l := Normalize(requested)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l == "" || l == r.def {
		return "", true
	}
	if !r.supported[l] {
		return "", false
	}
	return l, true
}

// Normalize 统一为小写并把下划线替换为连字符，如 "pt_BR" -> "pt-br"
func Normalize(l string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(l)), "_", "-")
}
