package models

// Platform identifies which social network an account publishes to.
// No authorization decision branches on platform; it only drives display
// metadata and feed-preview layout in the client.
type Platform string

const (
	PlatformInstagram     Platform = "instagram"
	PlatformTikTok        Platform = "tiktok"
	PlatformFacebook      Platform = "facebook"
	PlatformYouTubeShorts Platform = "youtube_shorts"
)

// PlatformInfo is static display metadata for a platform.
type PlatformInfo struct {
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	AspectRatio string `json:"aspect_ratio"`
}

var platformInfo = map[Platform]PlatformInfo{
	PlatformInstagram:     {Label: "Instagram", Icon: "instagram", AspectRatio: "1:1"},
	PlatformTikTok:        {Label: "TikTok", Icon: "tiktok", AspectRatio: "9:16"},
	PlatformFacebook:      {Label: "Facebook", Icon: "facebook", AspectRatio: "1.91:1"},
	PlatformYouTubeShorts: {Label: "YouTube Shorts", Icon: "youtube", AspectRatio: "9:16"},
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	_, ok := platformInfo[p]
	return ok
}

// Info returns display metadata for the platform. Unknown platforms get a
// zero PlatformInfo rather than a panic; callers validate on write paths.
func (p Platform) Info() PlatformInfo {
	return platformInfo[p]
}
