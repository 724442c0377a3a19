package view

import "context"

// Dialogs реализует usecase.Presenter поверх регионов страницы:
// диалог — скрытый регион, тост — регион toast.
type Dialogs struct {
	target RenderTarget
}

func NewDialogs(target RenderTarget) *Dialogs {
	return &Dialogs{target: target}
}

func (d *Dialogs) Show(_ context.Context, dialogID string) {
	d.target.SetVisible(dialogID, true)
}

func (d *Dialogs) Hide(_ context.Context, dialogID string) {
	d.target.SetVisible(dialogID, false)
}

func (d *Dialogs) Notify(_ context.Context, message string) {
	d.target.SetText(RegionToast, message)
	d.target.SetVisible(RegionToast, true)
}
