package api

import "frxai/pkg/frxai"

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Generator bool   `json:"generator"`
}

type onboardingResponse struct {
	Completed bool `json:"completed"`
}

type translationsResponse struct {
	Language frxai.Language    `json:"language"`
	Messages map[string]string `json:"messages"`
}
