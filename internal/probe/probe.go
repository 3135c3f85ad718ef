package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	FieldOrder   string `json:"field_order"`
	BitRate      string `json:"bit_rate"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("probe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("probe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return Decode(output)
}

// Decode parses raw ffprobe JSON output.
func Decode(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("probe parse: %w", err)
	}
	return result, nil
}

// videoStream returns the first video stream, if any.
func (r Result) videoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// Resolution renders the video dimensions as "1920 x 1080", or "N/A" when no
// video stream was found.
func (r Result) Resolution() string {
	video, ok := r.videoStream()
	if !ok || video.Width == 0 || video.Height == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d x %d", video.Width, video.Height)
}

// FrameRate renders the average video frame rate in frames per second, or
// "N/A" when unavailable.
func (r Result) FrameRate() string {
	video, ok := r.videoStream()
	if !ok {
		return "N/A"
	}
	fps := parseRatio(video.AvgFrameRate)
	if fps <= 0 || math.IsNaN(fps) {
		return "N/A"
	}
	return strconv.FormatFloat(fps, 'f', -1, 64) + " FPS"
}

// ScanType reports progressive or interlaced according to the video stream's
// field order, or "N/A" when unknown.
func (r Result) ScanType() string {
	video, ok := r.videoStream()
	if !ok || video.FieldOrder == "" || video.FieldOrder == "unknown" {
		return "N/A"
	}
	if video.FieldOrder == "progressive" {
		return "Progressive"
	}
	return "Interlaced"
}

// BitRateKbps returns the overall container bitrate in kilobits per second,
// or 0 when unavailable.
func (r Result) BitRateKbps() int64 {
	rate := parseFloat(r.Format.BitRate)
	if math.IsNaN(rate) || rate <= 0 {
		return 0
	}
	return int64(math.Round(rate / 1000))
}

// VideoCodec returns the video codec name, or "N/A" without a video stream.
func (r Result) VideoCodec() string {
	video, ok := r.videoStream()
	if !ok || video.CodecName == "" {
		return "N/A"
	}
	return video.CodecName
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}

// parseRatio evaluates ffprobe rational strings such as "25/1" or "30000/1001".
func parseRatio(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "0/0" {
		return 0
	}
	num, den, found := strings.Cut(value, "/")
	if !found {
		return parseFloat(value)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 || math.IsNaN(n) || math.IsNaN(d) {
		return 0
	}
	return math.Round(n/d*1000) / 1000
}
