package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	if enabled[0].HTTP.Method != "POST" || enabled[0].HTTP.TimeoutSeconds != 5 {
		t.Fatalf("expected http defaults applied, got %#v", enabled[0].HTTP)
	}
}

func TestLoadRegistryInlinesAWSSettings(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: audit-queue
    type: SQS
    sqs:
      uri: https://sqs.eu-west-1.amazonaws.com/123/audit
      region: eu-west-1
      endpoint: http://localhost:4566
      access_key_id: test
      secret_access_key: test
  - id: audit-topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-west-1:123:audit
      region: eu-west-1
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	q, ok := reg.ByID("audit-queue")
	if !ok {
		t.Fatalf("expected audit-queue loaded")
	}
	if q.Type != TypeSQS || q.SQS.Region != "eu-west-1" || q.SQS.Endpoint != "http://localhost:4566" || q.SQS.AccessKeyID != "test" {
		t.Fatalf("unexpected sqs config %#v", q.SQS)
	}
	topic, ok := reg.ByID("audit-topic")
	if !ok || topic.SNS.TopicARN != "arn:aws:sns:eu-west-1:123:audit" {
		t.Fatalf("unexpected sns config %#v", topic.SNS)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{
  "publishers": [
    {"id": "ps", "type": "pubsub", "pubsub": {"project_id": "demo", "topic": "messages"}}
  ]
}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 1 || all[0].PubSub.Topic != "messages" {
		t.Fatalf("unexpected registry %#v", all)
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: dup
    type: http
    http: {url: https://a.example}
  - id: dup
    type: http
    http: {url: https://b.example}
`)

	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing http":       {ID: "h1", Type: TypeHTTP},
		"missing sns arn":    {ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{AWSConfig: AWSConfig{Region: "eu-west-1"}}},
		"missing sqs region": {ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}},
		"missing topic":      {ID: "p1", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "demo"}},
		"unknown type":       {ID: "x1", Type: "kafka"},
	}
	for name, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
