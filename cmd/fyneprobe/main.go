package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/PopulationPyramid/src/pyramid"
	"github.com/iafilius/PopulationPyramid/src/render"
)

// fyneprobe checks that the driver and the chart runtime work together by
// showing the empty pyramid for a few seconds.
func main() {
	fmt.Println("[fyneprobe] starting minimal Fyne app")
	if err := render.Initialize(); err != nil {
		fmt.Printf("[fyneprobe] chart runtime: %v\n", err)
		return
	}
	img, err := render.PNG(pyramid.EmptyModel(), pyramid.DefaultOptions(), 640, 360)
	if err != nil {
		fmt.Printf("[fyneprobe] render: %v\n", err)
		return
	}
	a := app.New()
	w := a.NewWindow("Fyne Probe")
	ci := canvas.NewImageFromImage(img)
	ci.FillMode = canvas.ImageFillContain
	ci.SetMinSize(fyne.NewSize(640, 360))
	w.SetContent(container.NewBorder(nil, widget.NewLabel("Empty pyramid - will close in 5s"), nil, nil, ci))
	go func() {
		time.Sleep(5 * time.Second)
		fmt.Println("[fyneprobe] closing window via fyne.Do")
		fyne.Do(func() { w.Close() })
	}()
	w.ShowAndRun()
	fmt.Println("[fyneprobe] exited cleanly")
}
