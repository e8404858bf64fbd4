// Package scene reads and writes scene files: a canvas plus the items laid
// out on it.
//
// A scene is stored as JSON or YAML, chosen by file extension:
//
//	canvas: {width: 1920, height: 1080}
//	items:
//	  - id: readme
//	    label: README.md
//	    footprint: {width: 72, height: 90}
//	    position: {x: 14, y: 37}
//	  - id: photos
//	    footprint: {width: 72, height: 90}
//	  - id: notes
//	    footprint: {width: 72, height: 90}
//	    position: {x: 114, y: 37}
//	    lazy: true
//
// Items without a position have not been placed yet; [Scene.Split] hands
// them to the layout engine as fresh items. Lazy items carry a provisional
// position that the engine may ignore. Items without an id are assigned a
// random UUID when the file is read.
package scene
