// Package serialization reads and writes WAME optimizer configs and training
// checkpoints as YAML documents.
//
// Config file:
//
//	optimizer: wame_adapted
//	config:
//	  lr: 0.001
//	  beta: 0.9
//	  eta_plus: 1.2
//	  eta_minus: 0.1
//	  zeta_min: 0.01
//	  zeta_max: 100
//
// A checkpoint adds parameter values, the optimizer state dict and a
// SHA-256 checksum over all tensors, so training can resume with the same
// previous_gradient, zeta, z and theta it stopped with.
//
// Example usage:
//
//	ckpt, err := serialization.NewCheckpoint(optimizer)
//	if err != nil {
//	    return err
//	}
//	if err := ckpt.Save("run.ckpt.yaml"); err != nil {
//	    return err
//	}
//
//	// Later, with the same parameters constructed:
//	ckpt, err = serialization.LoadCheckpoint("run.ckpt.yaml")
//	if err != nil {
//	    return err
//	}
//	err = ckpt.Restore(optimizer)
package serialization
