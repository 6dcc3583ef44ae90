// Утилита дергает image-эндпоинт напрямую: отправляет один configs-батч
// и печатает полученные URL. Ядро от этого сервиса не зависит.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"mindstage-server/pkg/api"
)

func main() {
	base := flag.String("base", "http://localhost:9800", "image service base URL")
	prompt := flag.String("prompt", "", "image prompt")
	model := flag.String("model", "flux", "image model name")
	width := flag.Int("width", 1024, "image width")
	height := flag.Int("height", 768, "image height")
	flag.Parse()

	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "usage: imagegen -prompt \"...\" [-base URL] [-model NAME]")
		os.Exit(2)
	}

	req := api.ImageRequest{
		Configs: []api.ImageConfig{{
			Prompt: *prompt,
			Model:  *model,
			Width:  *width,
			Height: *height,
		}},
	}
	body, err := json.Marshal(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal request: %v\n", err)
		os.Exit(1)
	}

	url := strings.TrimRight(*base, "/") + api.ImagePath
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "image service returned %d: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	var out api.ImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "decode response: %v\n", err)
		os.Exit(1)
	}

	for _, img := range out.Images {
		fmt.Printf("%s\t%s\n", img.Filename, img.URL)
	}
	fmt.Fprintf(os.Stderr, "generated %d image(s) in %.1fs\n", len(out.Images), out.ElapsedTime)
}
