package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/solo-io/ghrelease/internal/version"
	"github.com/solo-io/ghrelease/pkg/cli"
	"github.com/solo-io/ghrelease/pkg/cli/internal/commands/create"
	"github.com/solo-io/ghrelease/pkg/release"
)

type fakeGitHub struct {
	*httptest.Server

	mu            sync.Mutex
	createStatus  int
	createdPaths  []string
	authorization []string
	uploads       map[string]string
}

func newFakeGitHub() *fakeGitHub {
	f := &fakeGitHub{
		createStatus: http.StatusCreated,
		uploads:      map[string]string{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *fakeGitHub) handle(w http.ResponseWriter, r *http.Request) {
	defer GinkgoRecover()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authorization = append(f.authorization, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	if strings.HasSuffix(r.URL.Path, "/assets") {
		byt, err := ioutil.ReadAll(r.Body)
		Expect(err).NotTo(HaveOccurred())
		name := r.URL.Query().Get("name")
		f.uploads[name] = string(byt)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"id":7,"name":%q}`, name)
		return
	}

	f.createdPaths = append(f.createdPaths, r.URL.Path)
	var body map[string]interface{}
	Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
	w.WriteHeader(f.createStatus)
	if f.createStatus != http.StatusCreated {
		fmt.Fprint(w, `{"message":"Bad credentials","documentation_url":"https://docs.github.com/rest"}`)
		return
	}
	fmt.Fprintf(w, `{"id":42,"tag_name":%q,"name":%q,"html_url":"https://github.com/acme/widgets/releases/tag/%s"}`,
		body["tag_name"], body["name"], body["tag_name"])
}

func (f *fakeGitHub) requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.authorization)
}

func execute(args ...string) (string, error) {
	cmd := cli.CreateGitHubRelease()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

var _ = Describe("create-github-release", func() {
	var (
		github   *fakeGitHub
		dir      string
		savedEnv map[string]string
	)

	envKeys := []string{"GITHUB_TOKEN", "PAT", "GITHUB_REPOSITORY"}

	BeforeEach(func() {
		savedEnv = map[string]string{}
		for _, key := range envKeys {
			if val, ok := os.LookupEnv(key); ok {
				savedEnv[key] = val
			}
			os.Unsetenv(key)
		}
		github = newFakeGitHub()

		var err error
		dir, err = ioutil.TempDir("", "create-github-release")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		github.Close()
		os.RemoveAll(dir)
		for _, key := range envKeys {
			os.Unsetenv(key)
			if val, ok := savedEnv[key]; ok {
				os.Setenv(key, val)
			}
		}
	})

	endpointArgs := func(args ...string) []string {
		return append(args,
			"--api-url", github.URL,
			"--upload-url", github.URL,
			"--no-tty",
		)
	}

	repoArgs := func(args ...string) []string {
		return endpointArgs(append(args, "--owner", "acme", "--repo", "widgets")...)
	}

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(ioutil.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	It("prints usage when the tag is missing", func() {
		os.Setenv("GITHUB_TOKEN", "tok")
		out, err := execute(endpointArgs()...)
		Expect(err).To(Equal(create.ErrMissingTag))
		Expect(out).To(ContainSubstring("Usage:"))
		Expect(github.requests()).To(Equal(0))
	})

	It("exits before any request when no token is set", func() {
		out, err := execute(repoArgs("v1.0.0")...)
		Expect(err).To(Equal(release.ErrNoToken))
		Expect(out).To(ContainSubstring("GitHub token not set!"))
		Expect(out).To(ContainSubstring("Set GITHUB_TOKEN or PAT environment variable"))
		Expect(github.requests()).To(Equal(0))
	})

	It("creates the release", func() {
		os.Setenv("GITHUB_TOKEN", "tok")
		out, err := execute(repoArgs("v1.0.0")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Creating release v1.0.0 on acme/widgets"))
		Expect(out).To(ContainSubstring("Release created successfully!"))
		Expect(out).To(ContainSubstring("URL: https://github.com/acme/widgets/releases/tag/v1.0.0"))
		Expect(out).To(ContainSubstring("ID: 42"))
		Expect(out).To(ContainSubstring("Release v1.0.0 created successfully!"))
		Expect(github.createdPaths).To(Equal([]string{"/repos/acme/widgets/releases"}))
		Expect(github.authorization).To(Equal([]string{"Bearer tok"}))
	})

	It("releases a tag named like a subcommand when passed with --tag", func() {
		os.Setenv("GITHUB_TOKEN", "tok")
		out, err := execute(repoArgs("--tag", "version")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Release version created successfully!"))
		Expect(github.createdPaths).To(Equal([]string{"/repos/acme/widgets/releases"}))
	})

	It("refuses a tag given both as argument and flag", func() {
		os.Setenv("GITHUB_TOKEN", "tok")
		_, err := execute(repoArgs("v1.0.0", "--tag", "v2.0.0")...)
		Expect(err).To(Equal(create.ErrConflictingTag))
		Expect(github.requests()).To(Equal(0))
	})

	It("prefers GITHUB_TOKEN over PAT", func() {
		os.Setenv("GITHUB_TOKEN", "primary")
		os.Setenv("PAT", "fallback")
		_, err := execute(repoArgs("v1.0.0")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(github.authorization).To(Equal([]string{"Bearer primary"}))
	})

	It("falls back to PAT", func() {
		os.Setenv("PAT", "fallback")
		_, err := execute(repoArgs("v1.0.0")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(github.authorization).To(Equal([]string{"Bearer fallback"}))
	})

	It("reads the repository from GITHUB_REPOSITORY", func() {
		os.Setenv("GITHUB_TOKEN", "tok")
		os.Setenv("GITHUB_REPOSITORY", "octo/cat")
		_, err := execute(endpointArgs("v1.0.0")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(github.createdPaths).To(Equal([]string{"/repos/octo/cat/releases"}))
	})

	It("reports the status and body of a failed create", func() {
		os.Setenv("GITHUB_TOKEN", "expired")
		github.createStatus = http.StatusUnauthorized
		out, err := execute(repoArgs("v1.0.0")...)
		Expect(release.StatusCode(err)).To(Equal(http.StatusUnauthorized))
		Expect(out).To(ContainSubstring("Failed to create release: 401"))
		Expect(out).To(ContainSubstring("Bad credentials"))
		Expect(out).NotTo(ContainSubstring("created successfully"))
	})

	It("uploads assets and their checksums after creating the release", func() {
		os.Setenv("GITHUB_TOKEN", "tok")
		asset := writeFile("widgets-linux-amd64", "elf")
		out, err := execute(repoArgs("v1.0.0", "-a", asset, "--sha256")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Uploading widgets-linux-amd64 (3 bytes)..."))
		Expect(out).To(ContainSubstring("Uploaded widgets-linux-amd64"))
		Expect(out).To(ContainSubstring("Uploaded widgets-linux-amd64.sha256"))
		Expect(github.uploads).To(HaveKeyWithValue("widgets-linux-amd64", "elf"))
		Expect(github.uploads).To(HaveKey("widgets-linux-amd64.sha256"))
	})

	It("keeps uploading after an unreadable asset", func() {
		os.Setenv("GITHUB_TOKEN", "tok")
		missing := filepath.Join(dir, "missing.tar.gz")
		present := writeFile("present.tar.gz", "gz")
		out, err := execute(repoArgs("v1.0.0", "-a", missing, "-a", present)...)
		Expect(err).To(HaveOccurred())
		Expect(out).To(ContainSubstring("Failed to read " + missing))
		Expect(out).To(ContainSubstring("Uploaded present.tar.gz"))
		Expect(github.uploads).To(HaveLen(1))
	})

	It("writes request metrics when asked", func() {
		os.Setenv("GITHUB_TOKEN", "tok")
		metricsFile := filepath.Join(dir, "release.prom")
		_, err := execute(repoArgs("v1.0.0", "--metrics-file", metricsFile)...)
		Expect(err).NotTo(HaveOccurred())
		byt, err := ioutil.ReadFile(metricsFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(byt)).To(ContainSubstring("github_release_requests_total"))
	})

	Context("upload", func() {
		It("attaches files to an existing release", func() {
			os.Setenv("GITHUB_TOKEN", "tok")
			file := writeFile("notes.txt", "hello")
			out, err := execute(repoArgs("upload", "42", file)...)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Uploaded notes.txt"))
			Expect(github.uploads).To(HaveKeyWithValue("notes.txt", "hello"))
			Expect(github.createdPaths).To(BeEmpty())
		})

		It("rejects a non numeric release id", func() {
			os.Setenv("GITHUB_TOKEN", "tok")
			_, err := execute(repoArgs("upload", "latest", writeFile("a", "b"))...)
			Expect(err).To(MatchError(ContainSubstring("release id must be a positive number")))
			Expect(github.requests()).To(Equal(0))
		})
	})

	It("prints the version", func() {
		out, err := execute("version")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(version.Name + " " + version.Version))
	})
})
