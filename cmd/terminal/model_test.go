package main

import (
	"encoding/json"
	"testing"

	"mindstage-server/pkg/api"
)

func TestParseLine_PlainCommand(t *testing.T) {
	cmd, err := parseLine("/ad")
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if cmd.Action != api.ActionAdvance || cmd.Payload != nil {
		t.Errorf("command mismatch: %+v", cmd)
	}
}

func TestParseLine_SpeakWithSpaces(t *testing.T) {
	cmd, err := parseLine("/speak --target=Hunter --content=We leave at dawn.")
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	var p api.SpeakPayload
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.Target != "Hunter" || p.Content != "We leave at dawn." {
		t.Errorf("payload mismatch: %+v", p)
	}
}

func TestParseLine_SwitchStage(t *testing.T) {
	cmd, err := parseLine("/switch_stage --stage=Forest Edge")
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	var p api.SwitchStagePayload
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.Stage != "Forest Edge" {
		t.Errorf("stage mismatch: %q", p.Stage)
	}
}

func TestParseLine_Errors(t *testing.T) {
	if _, err := parseLine("hello there"); err == nil {
		t.Error("non-command input must be rejected")
	}
	if _, err := parseLine("/speak --target"); err == nil {
		t.Error("flag without value must be rejected")
	}
}
