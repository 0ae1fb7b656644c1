package service

// 内部符号的测试出口.
const (
	EmptyFileMarker      = emptyFileMarker
	MaxContentIndexBytes = maxContentIndexBytes
)

var (
	BuildContentIndex = buildContentIndex
	DecodeTextContent = decodeTextContent
)
