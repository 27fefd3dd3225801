package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
)

type fakeExecutor struct {
	out  string
	err  error
	args []string
	name string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.name = name
	f.args = args
	return f.out, f.err
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func TestHasAudio(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
		want bool
	}{
		{
			name: "opus stream",
			out:  `{"streams":[{"index":1,"codec_type":"audio","codec_name":"opus"}]}`,
			want: true,
		},
		{
			name: "no streams",
			out:  `{"streams":[]}`,
			want: false,
		},
		{
			name: "empty object",
			out:  `{}`,
			want: false,
		},
		{
			name: "video only listing",
			out:  `{"streams":[{"index":0,"codec_type":"video","codec_name":"vp9"}]}`,
			want: false,
		},
		{
			name: "malformed output",
			out:  `not json`,
			want: false,
		},
		{
			name: "ffprobe error",
			err:  errors.New("Invalid data found when processing input"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{out: tt.out, err: tt.err}
			p := New("", exec, logger.Nop())

			got := p.HasAudio(context.Background(), "/share/clip.webm")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasAudioArgs(t *testing.T) {
	exec := &fakeExecutor{out: `{"streams":[]}`}
	p := New("/usr/bin/ffprobe", exec, logger.Nop())

	p.HasAudio(context.Background(), "/share/clip.webm")

	assert.Equal(t, "/usr/bin/ffprobe", exec.name)
	assert.Equal(t, []string{
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index,codec_type,codec_name",
		"-of", "json",
		"/share/clip.webm",
	}, exec.args)
}
