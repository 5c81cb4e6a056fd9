package main

import "net/http"

type systemInfo struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	info := systemInfo{
		Environment: app.config.Environment,
		Version:     app.config.Version,
	}

	err := app.writeJSON(w, http.StatusOK, envelope{"status": "available", "system_info": info}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
