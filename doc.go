/*
Package shotform renders guided basketball shot-form review overlays.

Given per-frame body keypoints and joint angles produced by an external
pose detection service, the library scales detections into render space,
classifies joints against biomechanical angle thresholds, draws a layered
skeletal overlay with floating annotation callouts, and choreographs a
three stage timed playback (full speed pass, guided zoom tutorial, slow
motion replay) that can be scrubbed, paused and exported to video.

See example code and usage in the example subdirectory.
*/
package shotform
