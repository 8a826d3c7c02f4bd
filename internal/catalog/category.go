package catalog

import "strings"

// Category classifies an asset file by its extension.
type Category string

const (
	CategoryGLTF  Category = "glTF"
	Category3D    Category = "3D"
	CategoryImage Category = "PNG" // historical label covering all raster formats
	CategoryAudio Category = "Audio"
	CategoryOther Category = "Other"
)

// Classify maps a file extension to its category. The check is
// case-insensitive. primary reports whether the extension is a primary 3D
// format (.gltf/.glb) that downstream consumers load without conversion.
// ok is false for extensions that are excluded from the index entirely.
func Classify(ext string) (category Category, primary bool, ok bool) {
	switch strings.ToLower(ext) {
	case ".gltf", ".glb":
		return CategoryGLTF, true, true
	case ".obj", ".fbx":
		return Category3D, false, true
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return CategoryImage, false, true
	case ".mp3", ".wav", ".ogg":
		return CategoryAudio, false, true
	case ".json", ".txt":
		return CategoryOther, false, true
	default:
		return "", false, false
	}
}
