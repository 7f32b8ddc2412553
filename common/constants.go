package common

const (
	SrcFileExtension = ".cm"
	ProfileFileName  = "cminus.toml"
	Version          = "0.1.0"
)
