// Package minc reads MINC2 image volumes into memory.
//
// A stored image has its own dimension order, names and sampling. The
// caller describes the volume it wants with a [Volume]: the dimension
// names in the desired in-memory order, optionally a voxel type and range.
// [OpenInput] reconciles the two layouts, derives the voxel-to-world
// transform, negotiates the numeric conversion and returns an [Input]
// session that streams the image into the volume in bounded slabs.
//
// Basic usage:
//
//	engine := store.New(store.DefaultConfig())
//	vol, _ := minc.NewVolume(minc.TypeNone, false, minc.Named("zspace"), minc.Named("yspace"), minc.Named("xspace"))
//	in, err := minc.OpenInput(engine, "brain.gmnc", vol)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer in.Close()
//
//	for {
//		more, fraction, err := in.ReadNextSlab()
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("%.0f%%\n", fraction*100)
//		if !more {
//			break
//		}
//	}
//
// Files holding several volumes along dimensions the volume does not
// request are walked with [Input.AdvanceToNextVolume].
package minc
