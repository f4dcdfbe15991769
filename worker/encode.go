// SPDX-License-Identifier: EPL-2.0

package worker

import (
	"bytes"
	"context"

	"github.com/ik5/audconv"
	"github.com/ik5/audconv/blob"
	"github.com/ik5/audconv/formats/mp3"
)

// encode runs job and returns the encoded file.
func encode(ctx context.Context, job Job, cfg config, progress func(float64)) (*blob.Blob, error) {
	bitrate := job.BitrateKbps
	if bitrate <= 0 {
		bitrate = mp3.DefaultBitrate
	}

	out := new(bytes.Buffer)

	err := audconv.Encode(ctx, out, job.Channels, job.SampleRate, job.Format,
		audconv.WithBitrate(bitrate),
		audconv.WithProgress(progress),
		audconv.WithMP3Encoder(cfg.newMP3),
	)
	if err != nil {
		return nil, err
	}

	return &blob.Blob{MIME: job.Format.MIME(), Data: out.Bytes()}, nil
}
