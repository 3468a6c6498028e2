// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"code.hybscloud.com/tdjson"
	"code.hybscloud.com/tdjson/internal/config"
)

// maxLine bounds one request line.
const maxLine = 1 << 20

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return sc
}

// runExec executes every input line and writes each answer on its own line.
// Lines the session rejects are logged and skipped.
func runExec(ctx context.Context, c *tdjson.Client, r io.Reader, w io.Writer, prompt bool, log *zap.Logger) error {
	sc := newScanner(r)
	out := bufio.NewWriter(w)
	defer out.Flush()
	var buf []byte
	for {
		if prompt {
			fmt.Fprint(w, "> ")
		}
		if !sc.Scan() {
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Text()
		if line == "" {
			continue
		}
		resp, ok, err := c.Execute(line)
		if err != nil {
			if errors.Is(err, tdjson.ErrNulByte) || errors.Is(err, tdjson.ErrInvalidUTF8) {
				log.Warn("request skipped", zap.Error(err))
				continue
			}
			return err
		}
		if !ok {
			log.Debug("no answer", zap.String("request", line))
			continue
		}
		buf = append(resp.AppendTo(buf[:0]), '\n')
		if _, err := out.Write(buf); err != nil {
			return err
		}
		if prompt {
			if err := out.Flush(); err != nil {
				return err
			}
		}
	}
}

// runSplit splits c, feeds input lines to cfg.Producers sender clones paced
// by one shared limiter, and prints answers from the receiver on the calling
// goroutine. It returns once input is exhausted and cfg.IdleTimeout passes
// without an answer.
func runSplit(ctx context.Context, c *tdjson.Client, cfg config.Config, r io.Reader, w io.Writer, log *zap.Logger) error {
	tx, rx, err := c.Split()
	if err != nil {
		return err
	}
	defer rx.Close()

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	limiter := rate.NewLimiter(limit, max(cfg.Burst, 1))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := newScanner(r)
		for sc.Scan() {
			if sc.Text() == "" {
				continue
			}
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			log.Error("read input", zap.Error(err))
		}
	}()

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		sendErrs []error
	)
	for range cfg.Producers {
		clone, err := tx.Clone()
		if err != nil {
			tx.Close()
			return err
		}
		wg.Go(func() {
			defer clone.Close()
			if err := produce(ctx, clone, limiter, lines, log); err != nil {
				errMu.Lock()
				sendErrs = append(sendErrs, err)
				errMu.Unlock()
				cancel()
			}
		})
	}
	tx.Close()

	var (
		idleMu sync.Mutex
		idle   *time.Timer
	)
	sent := make(chan struct{})
	go func() {
		wg.Wait()
		close(sent)
		idleMu.Lock()
		idle = time.AfterFunc(cfg.IdleTimeout, cancel)
		idleMu.Unlock()
	}()

	out := bufio.NewWriter(w)
	defer out.Flush()
	var buf []byte
	err = rx.Poll(ctx, cfg.ReceiveTimeout, func(resp tdjson.Response) error {
		idleMu.Lock()
		if idle != nil {
			idle.Reset(cfg.IdleTimeout)
		}
		idleMu.Unlock()
		buf = append(resp.AppendTo(buf[:0]), '\n')
		_, err := out.Write(buf)
		return err
	})
	cancel()
	// Producers stop at cancellation, but one may still be blocked on a full
	// engine queue; keep receiving until all have returned.
	for drained := false; !drained; {
		select {
		case <-sent:
			drained = true
		default:
			rx.Receive(cfg.ReceiveTimeout)
		}
	}

	errMu.Lock()
	defer errMu.Unlock()
	if len(sendErrs) > 0 {
		return errors.Join(sendErrs...)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// produce sends lines until they run out or ctx is done. It does not wait for
// input once ctx is done, so an input that never ends cannot hold it.
func produce(ctx context.Context, tx *tdjson.Sender, limiter *rate.Limiter, lines <-chan string, log *zap.Logger) error {
	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}
		if err := tx.Send(line); err != nil {
			if errors.Is(err, tdjson.ErrNulByte) {
				log.Warn("request skipped", zap.Error(err))
				continue
			}
			return err
		}
	}
}
