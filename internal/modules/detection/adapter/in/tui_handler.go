package in

import (
	detectiondto "focustree/internal/modules/detection/dto"
	detectionin "focustree/internal/modules/detection/port/in"
)

type TUIHandler struct {
	usecase detectionin.Usecase
}

func NewTUIHandler(usecase detectionin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Stats() detectiondto.StatsOutput {
	return h.usecase.Stats()
}

func (h TUIHandler) SetMonitor(enabled bool) {
	h.usecase.SetMonitorEnabled(enabled)
}

func (h TUIHandler) ResetEpisode() {
	h.usecase.ResetEpisode()
}
