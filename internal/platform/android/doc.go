// Package android drives an Android device over adb: screenshots and
// hierarchy dumps are captured on the device and pulled locally, and input is
// injected with the stock input command.
package android
