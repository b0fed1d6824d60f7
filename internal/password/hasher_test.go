package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("s3cret-Pa55")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(digest, "pbkdf2-sha256$") {
		t.Fatalf("unexpected digest format: %s", digest)
	}
	if strings.Contains(digest, "s3cret-Pa55") {
		t.Fatalf("digest leaks the password")
	}

	if !Verify("s3cret-Pa55", digest) {
		t.Fatalf("expected correct password to verify")
	}
	if Verify("wrong-pass", digest) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashProducesUniqueSalts(t *testing.T) {
	first, err := Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct digests for the same password")
	}
	if !Verify("same-password", first) || !Verify("same-password", second) {
		t.Fatalf("expected both digests to verify")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	cases := []string{
		"",
		"not-a-digest",
		"pbkdf2-sha256$abc$salt$key",
		"pbkdf2-sha256$0$c2FsdA$a2V5",
		"pbkdf2-sha256$600000$!!!$a2V5",
		"pbkdf2-sha256$600000$c2FsdA$!!!",
		"bcrypt$12$c2FsdA$a2V5",
	}
	for _, digest := range cases {
		if Verify("anything", digest) {
			t.Fatalf("expected malformed digest %q to fail verification", digest)
		}
	}
}
