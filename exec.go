package autograph

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/autograph/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// validExtensions are the signature image types accepted in batch mode.
var validExtensions = []string{".jpg", ".jpeg", ".png"}

// Ops holds the options of a headless composition.
type Ops struct {
	// Src is a signature image file, a directory of signatures, an URL or the pipe name.
	Src string
	// Dst is a PNG file, a directory or the pipe name.
	Dst      string
	PipeName string
	// Name of the signer. In batch mode, when empty, it is derived from each file name.
	Name string
	// KnockOut removes the paper background: pixels brighter than this luminance become transparent.
	// Zero keeps the image untouched.
	KnockOut int
	// Width and Height set the surface size. When zero the size of the source image is used.
	Width, Height int
	Workers       int
	// Stderr receives the progress messages. It defaults to os.Stderr.
	Stderr io.Writer
}

// result holds the outcome of a single composition.
type result struct {
	path string
	err  error
}

// Execute composes an existing signature image with the signer's name.
// A directory source is processed concurrently: every supported image found in it is
// composed with the name derived from its file name, unless Name is set.
func (c *Compositor) Execute(op *Ops) error {
	if op.Stderr == nil {
		op.Stderr = os.Stderr
	}

	if utils.IsValidUrl(op.Src) {
		data, err := utils.DownloadImage(op.Src)
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		return op.timed(func() error {
			return op.compose(c, bytes.NewReader(data), op.Name, op.Dst)
		})
	}

	var (
		fs  os.FileInfo
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if op.Src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(op.Src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}

	switch mode := fs.Mode(); {
	case mode.IsDir():
		return op.timed(func() error { return op.batch(c) })
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0 || op.Src == op.PipeName:
		return op.timed(func() error {
			src, err := op.openSource(op.Src)
			if err != nil {
				return err
			}
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				defer f.Close()
			}
			return op.compose(c, src, op.Name, op.Dst)
		})
	default:
		return fmt.Errorf("unsupported source: %s", op.Src)
	}
}

// timed runs fn and prints the execution time on success.
func (op *Ops) timed(fn func() error) error {
	now := time.Now()
	if err := fn(); err != nil {
		return err
	}
	fmt.Fprintf(op.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
	)
	return nil
}

// batch composes every supported image of the source directory.
func (op *Ops) batch(c *Compositor) error {
	if op.Dst == op.PipeName {
		return errors.New("a directory cannot be composed into a pipe")
	}
	if err := os.MkdirAll(op.Dst, 0o755); err != nil {
		return fmt.Errorf("unable to create the destination directory: %w", err)
	}

	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, op.Src, validExtensions)
	out := &outputs{claimed: make(map[string]string)}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(c, out, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var failed error
	for res := range ch {
		if res.err != nil {
			failed = errors.Join(failed, fmt.Errorf("%s: %w", res.path, res.err))
		}
	}
	if err := <-errc; err != nil {
		return err
	}
	return failed
}

// consumer reads the path names from the paths channel and composes each of them.
// The output file is named after the input file, even when Name is set, so every input gets its own output.
func (op *Ops) consumer(c *Compositor, out *outputs, res chan<- result, done <-chan struct{}, paths <-chan string) {
	for path := range paths {
		name := op.Name
		if name == "" {
			name = nameFromPath(path)
		}
		dst := filepath.Join(op.Dst, (&Artifact{Name: nameFromPath(path)}).Filename())

		err := func() error {
			if err := out.claim(dst, path); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("unable to open the source file: %w", err)
			}
			defer f.Close()
			return op.compose(c, f, name, dst)
		}()

		select {
		case <-done:
			return
		case res <- result{path: path, err: err}:
		}
	}
}

// outputs records the files written by a batch, so two inputs never overwrite the same output.
type outputs struct {
	mu      sync.Mutex
	claimed map[string]string
}

// claim reserves dst for the src input. The paths are compared case-insensitively,
// as they would collide on case-insensitive file systems too.
func (o *outputs) claim(dst, src string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	key := strings.ToLower(dst)
	if prev, ok := o.claimed[key]; ok {
		return fmt.Errorf("output %s is already written for %s", filepath.Base(dst), prev)
	}
	o.claimed[key] = src
	return nil
}

// compose decodes the signature, composes it with the name and writes the PNG into dst.
func (op *Ops) compose(c *Compositor, r io.Reader, name, dst string) error {
	spinner := utils.NewSpinner(op.Stderr, fmt.Sprintf("%s %s",
		utils.DecorateText("✍ AUTOGRAPH", utils.StatusMessage),
		utils.DecorateText("⇢ composing the signature...", utils.DefaultMessage),
	), 80*time.Millisecond, true)

	// Capture CTRL-C signal and restore back the cursor visibility.
	sig := make(chan os.Signal, 1)
	stop := make(chan struct{})
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sig)
		close(stop)
	}()
	go func() {
		select {
		case <-sig:
			spinner.RestoreCursor()
			os.Exit(1)
		case <-stop:
		}
	}()

	spinner.Start()
	artifact, err := op.generate(c, r, name)
	if err != nil {
		spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("✍ AUTOGRAPH", utils.StatusMessage),
			utils.DecorateText("composing the signature failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
		spinner.Stop()
		return err
	}

	path, err := op.write(artifact, dst)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
		utils.DecorateText("✍ AUTOGRAPH", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the signature has been composed successfully ✔", utils.SuccessMessage),
	)
	spinner.Stop()

	if path != "" {
		fmt.Fprintf(op.Stderr, "The signature has been saved as: %s\n",
			utils.DecorateText(filepath.Base(path), utils.SuccessMessage),
		)
	}
	return nil
}

// generate loads the signature onto a surface and composes it.
func (op *Ops) generate(c *Compositor, r io.Reader, name string) (*Artifact, error) {
	img, err := decodeImg(r)
	if err != nil {
		return nil, err
	}
	if op.KnockOut > 0 {
		img = KnockOut(img, uint8(utils.Clamp(op.KnockOut, 0, 255)))
	}

	w, h := op.Width, op.Height
	if w <= 0 || h <= 0 {
		w, h = img.Bounds().Dx(), img.Bounds().Dy()
	}
	pad := NewPad(w, h)
	pad.Load(img)

	return c.Generate(name, pad.Image())
}

// write saves the artifact into a file, into a directory or into the stdout pipe.
// It returns the path of the created file, or an empty string for the pipe.
func (op *Ops) write(a *Artifact, dst string) (string, error) {
	if dst == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return "", errors.New("`-` should be used with a pipe for stdout")
		}
		_, err := a.WriteTo(os.Stdout)
		return "", err
	}

	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		return Export(a, dst)
	}
	if ext := strings.ToLower(filepath.Ext(dst)); ext != ".png" {
		return "", fmt.Errorf("%v file type not supported", ext)
	}
	if err := os.WriteFile(dst, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("unable to create the destination file: %w", err)
	}
	return dst, nil
}

// openSource returns a reader over a local file or over stdin.
func (op *Ops) openSource(in string) (io.Reader, error) {
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		return os.Stdin, nil
	}
	f, err := os.Open(in)
	if err != nil {
		return nil, fmt.Errorf("unable to open the source file: %w", err)
	}
	return f, nil
}

// nameFromPath derives the signer's name from a file name: "ana_maria-silva.png" gives "ana maria silva".
func nameFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.Join(strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-'
	}), " ")
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(done <-chan struct{}, src string, srcExts []string) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() || !isValidExtension(filepath.Ext(f.Name()), srcExts) {
				return nil
			}
			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	ext = strings.ToLower(ext)
	for _, ex := range extensions {
		if ex == ext {
			return true
		}
	}
	return false
}
