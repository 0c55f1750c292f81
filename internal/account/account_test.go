package account

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPassword("demo123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "demo123" {
		t.Fatal("password stored in the clear")
	}
	if !checkPassword(hash, "demo123") {
		t.Error("correct password rejected")
	}
	if checkPassword(hash, "demo124") {
		t.Error("wrong password accepted")
	}
}
