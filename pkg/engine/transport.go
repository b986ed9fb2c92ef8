package engine

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const maxLoggedBody = 64 * 1024

// loggingTransport logs each request and response at debug level
type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

// WithDebugLogging returns a copy of hc whose transport logs requests and
// responses. A client that already logs is returned unchanged.
func WithDebugLogging(hc *http.Client, logger *slog.Logger) *http.Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if _, ok := hc.Transport.(*loggingTransport); ok {
		return hc
	}

	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	clone := *hc
	clone.Transport = &loggingTransport{base: base, logger: logger}
	return &clone
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attrs := []any{"method", req.Method, "url", req.URL.String()}
	if body := requestBody(req); body != "" {
		attrs = append(attrs, "body", body)
	}
	t.logger.Debug("http request", attrs...)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("http error", "method", req.Method, "url", req.URL.String(), "error", err, "duration", time.Since(start))
		return nil, err
	}

	attrs = []any{"status", resp.StatusCode, "url", req.URL.String(), "duration", time.Since(start)}

	// Streamed responses have no length and must not be buffered.
	if resp.ContentLength >= 0 && resp.ContentLength <= maxLoggedBody {
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(data))
		if readErr == nil {
			attrs = append(attrs, "body", string(data))
		}
	}
	t.logger.Debug("http response", attrs...)

	return resp, nil
}

func requestBody(req *http.Request) string {
	if req.GetBody == nil {
		return ""
	}
	rc, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxLoggedBody))
	if err != nil {
		return ""
	}
	return string(data)
}

// logUnary logs SDK calls once debug logging is enabled
func (c *Client) logUnary(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	if !c.debug.Load() {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	c.logger.Debug("grpc request", "method", method, "body", messageText(req))

	start := time.Now()
	err := invoker(ctx, method, req, reply, cc, opts...)
	if err != nil {
		c.logger.Debug("grpc error", "method", method, "code", status.Code(err), "error", err, "duration", time.Since(start))
		return err
	}

	c.logger.Debug("grpc response", "method", method, "duration", time.Since(start), "body", messageText(reply))
	return nil
}

// logStream logs the opening of streaming SDK calls once debug logging is enabled
func (c *Client) logStream(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	if !c.debug.Load() {
		return streamer(ctx, desc, cc, method, opts...)
	}

	c.logger.Debug("grpc stream", "method", method)

	cs, err := streamer(ctx, desc, cc, method, opts...)
	if err != nil {
		c.logger.Debug("grpc error", "method", method, "code", status.Code(err), "error", err)
		return nil, err
	}
	return &loggingStream{ClientStream: cs, logger: c.logger, method: method}, nil
}

// loggingStream logs every message sent and received on a stream
type loggingStream struct {
	grpc.ClientStream
	logger *slog.Logger
	method string
}

func (s *loggingStream) SendMsg(m any) error {
	s.logger.Debug("grpc stream send", "method", s.method, "body", messageText(m))
	return s.ClientStream.SendMsg(m)
}

func (s *loggingStream) RecvMsg(m any) error {
	err := s.ClientStream.RecvMsg(m)
	if err == nil {
		s.logger.Debug("grpc stream recv", "method", s.method, "body", messageText(m))
	}
	return err
}

func messageText(m any) string {
	if body, ok := m.(*httpbody.HttpBody); ok {
		return string(body.GetData())
	}
	msg, ok := m.(proto.Message)
	if !ok {
		return ""
	}
	data, err := protojson.Marshal(msg)
	if err != nil || len(data) > maxLoggedBody {
		return ""
	}
	return string(data)
}
