package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 缩略图上传相关常量
const (
	MimeImage         = "image/"
	MaxThumbnailBytes = 5 << 20
)

var (
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}
)
