package util

const (
	DateFormat = "2006-01-02"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

const (
	// 路径导出文件的 MIME 类型
	MimeMarkdown = "text/markdown; charset=utf-8"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
