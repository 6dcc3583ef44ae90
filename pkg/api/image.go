package api

// Контракт image-эндпоинта (потребляемый): POST {base}/api/generate/v1/.
// Используется только периферийным инструментарием; ядро от него не зависит.

// ImageConfig - параметры одной генерации.
type ImageConfig struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageRequest - тело запроса.
type ImageRequest struct {
	Configs []ImageConfig `json:"configs"`
}

// ImageResult - одна сгенерированная картинка.
type ImageResult struct {
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	Prompt    string `json:"prompt"`
	Model     string `json:"model"`
	LocalPath string `json:"local_path"`
}

// ImageResponse - тело ответа.
type ImageResponse struct {
	Images      []ImageResult `json:"images"`
	ElapsedTime float64       `json:"elapsed_time"`
}

// ImagePath - суффикс image-эндпоинта относительно базового URL.
const ImagePath = "/api/generate/v1/"
