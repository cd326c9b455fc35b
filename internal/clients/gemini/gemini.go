package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/extract"
)

const (
	responseMIMEType = "application/json"

	errorField   = "error"
	missingField = "missing_fields"
)

type config interface {
	APIKey() string
	Model() string
}

// Client asks Gemini for a JSON object shaped by the extraction schema.
type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, config config) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create gemini client")
	}
	return &Client{client: client, model: config.Model()}, nil
}

func (c *Client) Close() {
	if err := c.client.Close(); err != nil {
		logger.Error("failed to close gemini client", zap.Error(err))
	}
}

func (c *Client) Extract(ctx context.Context, schema extract.Schema, systemPrompt, payerName, description string) (extract.Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "geminiExtract")
	defer span.Finish()

	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.ResponseMIMEType = responseMIMEType
	model.ResponseSchema = toSchema(schema)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt(payerName, description)))
	if err != nil {
		ext.Error.Set(span, true)
		return extract.Result{}, errors.Wrap(err, "model.GenerateContent")
	}

	res, err := parseResponse(resp)
	if err != nil {
		ext.Error.Set(span, true)
		return extract.Result{}, err
	}
	logger.Debug("extraction result",
		zap.String("error", res.Error),
		zap.Strings("missing", res.MissingFields))
	return res, nil
}

func userPrompt(payerName, description string) string {
	return fmt.Sprintf("The message was sent by %s.\nMessage: %s", payerName, description)
}

// toSchema converts the extraction schema into a response schema. Every field
// is nullable so the model can leave out what it cannot tell and list it in
// missing_fields instead.
func toSchema(schema extract.Schema) *genai.Schema {
	props := map[string]*genai.Schema{
		errorField: {
			Type:        genai.TypeString,
			Nullable:    true,
			Description: "Why the transaction could not be extracted, null on success",
		},
		missingField: {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Names of the fields that could not be determined",
		},
	}
	required := []string{errorField, missingField}

	for _, f := range schema.Fields {
		s := &genai.Schema{
			Description: f.Description,
			Nullable:    true,
		}
		switch f.Kind {
		case extract.KindNumber:
			s.Type = genai.TypeNumber
		case extract.KindString:
			s.Type = genai.TypeString
		case extract.KindEnum:
			s.Type = genai.TypeString
			s.Format = "enum"
			s.Enum = f.Enum
		}
		if f.Default != "" {
			s.Description += fmt.Sprintf(". Use %q when not stated", f.Default)
		}
		props[f.Name] = s
		required = append(required, f.Name)
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}

func parseResponse(resp *genai.GenerateContentResponse) (extract.Result, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return extract.Result{}, errors.New("empty response from gemini")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			raw.WriteString(string(text))
		}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw.String())))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return extract.Result{}, errors.Wrap(err, "decode gemini response")
	}

	var res extract.Result
	if msg, ok := body[errorField].(string); ok {
		res.Error = msg
	}
	if missing, ok := body[missingField].([]any); ok {
		for _, m := range missing {
			if name, ok := m.(string); ok {
				res.MissingFields = append(res.MissingFields, name)
			}
		}
	}
	delete(body, errorField)
	delete(body, missingField)

	payload := make(map[string]any, len(body))
	for k, v := range body {
		if v != nil {
			payload[k] = v
		}
	}
	res.Payload = payload
	return res, nil
}
