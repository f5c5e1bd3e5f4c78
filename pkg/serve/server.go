package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/praetorian-inc/what/pkg/filter"
	"github.com/praetorian-inc/what/pkg/identify"
	"github.com/praetorian-inc/what/pkg/types"
	"github.com/rs/zerolog"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server answers identification requests read as NDJSON.
type Server struct {
	identifier *identify.Identifier
	defaults   identify.Request
	encoder    *json.Encoder
	decoder    *json.Decoder
	log        zerolog.Logger
}

// NewServer creates a new streaming server. defaults supplies the filters
// and ordering for requests that do not override them.
func NewServer(id *identify.Identifier, defaults identify.Request, in io.Reader, out io.Writer) *Server {
	return &Server{
		identifier: id,
		defaults:   defaults,
		encoder:    json.NewEncoder(out),
		decoder:    json.NewDecoder(bufio.NewReader(in)),
		log:        zerolog.Nop(),
	}
}

// WithLogger sets the logger used for request diagnostics.
func (s *Server) WithLogger(l zerolog.Logger) *Server {
	s.log = l
	return s
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until input closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(ctx, req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(ctx, req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(ctx context.Context, req Request) bool {
	s.log.Debug().Str("type", req.Type).Msg("request")

	switch req.Type {
	case "identify":
		s.handleIdentify(ctx, req.Payload)
	case "identify_batch":
		s.handleIdentifyBatch(ctx, req.Payload)
	case "tags":
		s.send("tags", TagsResult{Tags: s.identifier.Catalog().Tags()})
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send("ready", ReadyData{
		Version:    Version,
		Signatures: s.identifier.Catalog().Len(),
	})
}

func (s *Server) handleIdentify(ctx context.Context, payload json.RawMessage) {
	var p IdentifyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("identify", err.Error())
		return
	}

	req, err := s.request(p.Options)
	if err != nil {
		s.sendError("identify", err.Error())
		return
	}

	blob := types.NewTextBlob(p.Content)
	if p.Source != "" {
		blob.Provenance = types.TextProvenance{Label: p.Source}
	}

	res, err := s.identifier.Identify(ctx, []types.Blob{blob}, req)
	if err != nil {
		s.sendError("identify", err.Error())
		return
	}

	s.send("identify", IdentifyResult{
		Source:    blob.Origin(),
		Matches:   types.NewMatchRecords(res.Matches),
		Truncated: res.Truncated(),
	})
}

func (s *Server) handleIdentifyBatch(ctx context.Context, payload json.RawMessage) {
	var p IdentifyBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("identify_batch", err.Error())
		return
	}

	req, err := s.request(p.Options)
	if err != nil {
		s.sendError("identify_batch", err.Error())
		return
	}

	blobs := make([]types.Blob, 0, len(p.Items))
	for _, item := range p.Items {
		blob := types.NewTextBlob(item.Content)
		if item.Source != "" {
			blob.Provenance = types.TextProvenance{Label: item.Source}
		}
		blobs = append(blobs, blob)
	}

	res, err := s.identifier.Identify(ctx, blobs, req)
	if err != nil {
		s.sendError("identify_batch", err.Error())
		return
	}

	out := BatchResult{
		Matches: types.NewMatchRecords(res.Matches),
		Total:   len(res.Matches),
	}
	for _, b := range res.Blobs {
		if b.Truncated {
			out.Truncated = append(out.Truncated, b.Origin)
		}
	}
	s.send("identify_batch", out)
}

// request merges per-request options over the server defaults.
func (s *Server) request(opts Options) (identify.Request, error) {
	req := s.defaults
	cat := s.identifier.Catalog()

	if !opts.Filter.empty() {
		f, err := buildFilter(cat, opts.Filter)
		if err != nil {
			return req, err
		}
		req.Bounded = f
	}
	if !opts.Boundaryless.empty() {
		f, err := buildFilter(cat, opts.Boundaryless)
		if err != nil {
			return req, err
		}
		req.Boundaryless = f
	}
	if opts.Key != "" {
		key, err := identify.ParseSortKey(opts.Key)
		if err != nil {
			return req, err
		}
		req.Key = key
	}
	if opts.Reverse {
		req.Reverse = true
	}
	return req, nil
}

func buildFilter(vocab filter.Vocabulary, opts FilterOptions) (*filter.Filter, error) {
	rarity := opts.Rarity
	if rarity == "" {
		rarity = filter.DefaultRange
	}
	c, err := filter.ParseCriteria(rarity, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	return filter.New(vocab, c)
}

func (s *Server) send(respType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(respType, err.Error())
		return
	}
	s.encoder.Encode(Response{
		Success: true,
		Type:    respType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.log.Debug().Str("type", reqType).Str("error", msg).Msg("request failed")
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
