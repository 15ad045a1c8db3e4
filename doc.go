/*
Package autograph captures a handwritten signature drawn with a mouse or a finger and
composites it together with the signer's name into a flat PNG image, ready to be downloaded.

The package provides a Gio based signing window and a command line interface,
supporting headless composition of an already existing signature image.
To check the supported commands type:

	$ autograph --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/autograph"
	)

	func main() {
		s, err := autograph.NewSession(600, 200)
		if err != nil {
			// handle error
		}

		pad := s.Pad()
		pad.Begin(autograph.MouseEvent{Offset: autograph.Point{X: 20, Y: 120}})
		pad.Extend(autograph.MouseEvent{Offset: autograph.Point{X: 240, Y: 80}})
		pad.End()

		if _, err := s.Generate("Ana Maria"); err != nil {
			fmt.Printf("Error generating the signature: %s", err.Error())
		}
		path, _ := s.Save(".")
		fmt.Println(path) // assinatura_Ana_Maria.png
	}
*/
package autograph
