package probe

import "testing"

const sampleOutput = `{
    "streams": [
        {
            "index": 0,
            "codec_name": "h264",
            "codec_type": "video",
            "width": 1920,
            "height": 1080,
            "avg_frame_rate": "25/1",
            "field_order": "progressive"
        },
        {
            "index": 1,
            "codec_name": "aac",
            "codec_type": "audio"
        }
    ],
    "format": {
        "filename": "vip-tf1-42-1.ts",
        "nb_streams": 2,
        "duration": "30.0",
        "size": "28500000",
        "bit_rate": "7600000",
        "format_name": "mpegts"
    }
}`

func TestDecodeSummaries(t *testing.T) {
	result, err := Decode([]byte(sampleOutput))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := result.Resolution(); got != "1920 x 1080" {
		t.Fatalf("resolution = %q", got)
	}
	if got := result.FrameRate(); got != "25 FPS" {
		t.Fatalf("frame rate = %q", got)
	}
	if got := result.ScanType(); got != "Progressive" {
		t.Fatalf("scan type = %q", got)
	}
	if got := result.BitRateKbps(); got != 7600 {
		t.Fatalf("bitrate = %d kbps", got)
	}
	if got := result.VideoCodec(); got != "h264" {
		t.Fatalf("codec = %q", got)
	}
}

func TestSummariesWithoutVideoStream(t *testing.T) {
	result, err := Decode([]byte(`{"streams": [{"index": 0, "codec_type": "audio"}], "format": {}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := result.Resolution(); got != "N/A" {
		t.Fatalf("resolution = %q", got)
	}
	if got := result.FrameRate(); got != "N/A" {
		t.Fatalf("frame rate = %q", got)
	}
	if got := result.BitRateKbps(); got != 0 {
		t.Fatalf("bitrate = %d", got)
	}
}

func TestFractionalFrameRate(t *testing.T) {
	result, err := Decode([]byte(`{"streams": [{"codec_type": "video", "width": 1280, "height": 720, "avg_frame_rate": "30000/1001"}], "format": {}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := result.FrameRate(); got != "29.97 FPS" {
		t.Fatalf("frame rate = %q", got)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestParseSampleName(t *testing.T) {
	name, ok := ParseSampleName("vip-bein-sports-1-42-1.ts")
	if !ok {
		t.Fatal("sample name not recognized")
	}
	if name.Subscription != "vip" {
		t.Fatalf("subscription = %q", name.Subscription)
	}
	if name.Channel != "bein sports 1" {
		t.Fatalf("channel = %q", name.Channel)
	}
	if name.ID != "42" {
		t.Fatalf("id = %q", name.ID)
	}

	if _, ok := ParseSampleName("film.ts"); ok {
		t.Fatal("short name accepted as sample")
	}
}
