// Package dsvae trains a sequential disentangled-representation model for
// classifying multi-channel EEG trials. Each trial is factored into a
// time-invariant latent f, which carries the content used for classification,
// and a time-variant latent sequence z_1..z_T, which absorbs per-timestep
// nuisance and never reaches the classifier.
//
// Building and training a model:
//
//		cfg := dsvae.Default()
//		m, err := dsvae.New(cfg, nil)
//		if err != nil {
//			return err
//		}
//
//		train, eval, err := data.SplitBySubject(trials, heldOut)
//		if err != nil {
//			return err
//		}
//
//		err = m.Train(dsvae.TrainArgs{
//			TrainData:  train,
//			TestData:   eval,
//			Epochs:     cfg.Epochs,
//			SendStatus: dsvae.Every(cfg.StatusEvery),
//			Update:     func(r dsvae.Result) { fmt.Println(r) },
//		})
//
// The forward pass runs on the tape subpackage's autodiff values, so the
// composite loss (cross-entropy, factor KL against a standard normal, and
// sequential KL against the learned recurrent prior) differentiates end to
// end through the reparameterized samples.
//
// Optimizers are provided by the "optimizers" subpackage and register
// themselves by type string, which is how checkpoints reconstruct them;
// import it for side effects if only the default is needed. Weight
// initialization and sampling noise both come from the "initializers"
// subpackage, whose RNG interface is injectable for deterministic tests.
//
// Saving and loading
//
// Checkpoints are directories written by
//
//		func (m *Model) Save(dirPath string, opt Optimizer, overwrite bool) error
//
// and restored with
//
//		func Load(dirPath string, cfg Config) (*Model, Optimizer, error)
//
// which fails before training resumes if the checkpoint's shapes do not
// match the supplied configuration.
package dsvae
