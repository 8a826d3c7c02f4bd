package catalog

import "testing"

func TestClassifyRecognizedExtensions(t *testing.T) {
	cases := []struct {
		ext      string
		category Category
		primary  bool
	}{
		{".gltf", CategoryGLTF, true},
		{".glb", CategoryGLTF, true},
		{".obj", Category3D, false},
		{".fbx", Category3D, false},
		{".png", CategoryImage, false},
		{".jpg", CategoryImage, false},
		{".jpeg", CategoryImage, false},
		{".webp", CategoryImage, false},
		{".gif", CategoryImage, false},
		{".mp3", CategoryAudio, false},
		{".wav", CategoryAudio, false},
		{".ogg", CategoryAudio, false},
		{".json", CategoryOther, false},
		{".txt", CategoryOther, false},
	}

	for _, c := range cases {
		category, primary, ok := Classify(c.ext)
		if !ok {
			t.Errorf("Classify(%q): expected inclusion", c.ext)
			continue
		}
		if category != c.category {
			t.Errorf("Classify(%q): category = %q, want %q", c.ext, category, c.category)
		}
		if primary != c.primary {
			t.Errorf("Classify(%q): primary = %v, want %v", c.ext, primary, c.primary)
		}
	}
}

func TestClassifyExcludesUnrecognized(t *testing.T) {
	for _, ext := range []string{".blend", ".exe", ".md", ".tga", "", ".gltf2"} {
		if _, _, ok := Classify(ext); ok {
			t.Errorf("Classify(%q): expected exclusion", ext)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	category, primary, ok := Classify(".GLB")
	if !ok || category != CategoryGLTF || !primary {
		t.Errorf("Classify(.GLB) = (%q, %v, %v), want (glTF, true, true)", category, primary, ok)
	}
	category, _, ok = Classify(".PNG")
	if !ok || category != CategoryImage {
		t.Errorf("Classify(.PNG) = (%q, _, %v), want (PNG, true)", category, ok)
	}
}
