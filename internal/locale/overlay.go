package locale

// Field 把翻译行 T 上的一个字段覆盖到实体 E 上；翻译值为空时不做任何修改
type Field[E any, T any] func(entity *E, tr *T)

// Overlay 返回 base 的副本，按 fields 逐字段应用翻译；tr 为 nil 时原样返回
func Overlay[E any, T any](base E, tr *T, fields ...Field[E, T]) E {
	if tr == nil {
		return base
	}
	out := base
	for _, apply := range fields {
		apply(&out, tr)
	}
	return out
}

// Ptr 可空标量字段：翻译值为 nil 时回退
func Ptr[E any, T any, V any](dst func(*E) *V, src func(*T) *V) Field[E, T] {
	return func(e *E, t *T) {
		if v := src(t); v != nil {
			*dst(e) = *v
		}
	}
}

// Slice 切片类字段（JSON 列）：翻译值为 nil 时回退，空切片视为已翻译
func Slice[E any, T any, S ~[]X, X any](dst func(*E) *S, src func(*T) S) Field[E, T] {
	return func(e *E, t *T) {
		if v := src(t); v != nil {
			*dst(e) = v
		}
	}
}

// Nullable 由值自身判断是否为空的字段，例如 JSON 文本中的 null
func Nullable[E any, T any, V interface{ IsNull() bool }](dst func(*E) *V, src func(*T) V) Field[E, T] {
	return func(e *E, t *T) {
		if v := src(t); !v.IsNull() {
			*dst(e) = v
		}
	}
}
